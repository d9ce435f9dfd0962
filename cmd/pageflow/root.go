package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "pageflow",
	Short: "pageflow drives chat menus from a catalog of pages",
	Long: `pageflow renders chat pages (interactive lists, button menus and text) and
resolves the user's selections into navigation, flow hand-offs and function calls.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./pageflow.yaml when present)")
	rootCmd.PersistentFlags().String("catalog", "", "Directory of page files, overrides the embedded clinic catalog")
	rootCmd.PersistentFlags().Bool("loam", false, "Read --catalog as a loam vault (markdown with frontmatter)")
	rootCmd.PersistentFlags().String("entry", "", "Entry page (default main_menu)")
	rootCmd.PersistentFlags().String("locale", "", "Language of fallback texts, e.g. pt-BR")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config file and applies the global flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("catalog"); dir != "" {
		cfg.Catalog.Source = "dir"
		cfg.Catalog.Path = dir
		if useLoam, _ := cmd.Flags().GetBool("loam"); useLoam {
			cfg.Catalog.Source = "loam"
		}
	}
	if entry, _ := cmd.Flags().GetString("entry"); entry != "" {
		cfg.Catalog.Entry = entry
	}
	if lang, _ := cmd.Flags().GetString("locale"); lang != "" {
		cfg.Locale.Language = lang
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
