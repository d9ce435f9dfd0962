package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the pageflow banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                          __ _`, "#34d399"},
		{`  _ __   __ _  __ _  ___ / _| | _____      __`, "#2dd4bf"},
		{` | '_ \ / _' |/ _' |/ _ \ |_| |/ _ \ \ /\ / /`, "#22d3ee"},
		{` | |_) | (_| | (_| |  __/  _| | (_) \ V  V /`, "#38bdf8"},
		{` | .__/ \__,_|\__, |\___|_| |_|\___/ \_/\_/`, "#60a5fa"},
		{` |_|          |___/`, "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
