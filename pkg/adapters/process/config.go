package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kinds of registry entries a tool can serve.
const (
	KindFunction = "function"
	KindFlow     = "flow"
)

// ProcessConfig describes a local command serving a function or a flow.
type ProcessConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Kind        string            `yaml:"kind" json:"kind"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
	// NextPage is used when the command output does not name one.
	NextPage string `yaml:"next_page" json:"next_page"`
	// Params maps param names to validator rules, e.g. limit: "required,gte=1,lte=10".
	Params map[string]string `yaml:"params" json:"params"`
}

// ConfigFile represents the structure of tools.yaml
type ConfigFile struct {
	Tools []ProcessConfig `yaml:"tools" json:"tools"`
}

// LoadTools reads a configuration file (YAML or JSON) and returns a map of tool names to configs.
// A missing file yields an empty map.
func LoadTools(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ProcessConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read tools config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	toolMap := make(map[string]ProcessConfig)
	for _, tool := range cfg.Tools {
		if tool.Name == "" || tool.Command == "" {
			continue
		}
		if tool.Kind == "" {
			tool.Kind = KindFunction
		}
		if tool.Kind != KindFunction && tool.Kind != KindFlow {
			return nil, fmt.Errorf("tool %q: unknown kind %q", tool.Name, tool.Kind)
		}
		toolMap[tool.Name] = tool
	}

	return toolMap, nil
}
