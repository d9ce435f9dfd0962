package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/pageflow/pkg/catalog"
)

// PrintReport writes a validation report, one issue per line, errors in red and
// warnings in yellow. It returns the number of errors.
func PrintReport(w io.Writer, pages int, report catalog.Report) int {
	p := termenv.ColorProfile()
	errs := report.Errors()
	warns := report.Warnings()

	for _, issue := range errs {
		fmt.Fprintln(w, termenv.String("✗ "+issue.Error()).Foreground(p.Color("#f87171")))
	}
	for _, issue := range warns {
		fmt.Fprintln(w, termenv.String("! "+issue.Error()).Foreground(p.Color("#fbbf24")))
	}

	summary := fmt.Sprintf("%d pages, %d errors, %d warnings", pages, len(errs), len(warns))
	if len(errs) == 0 {
		fmt.Fprintln(w, termenv.String("✓ "+summary).Foreground(p.Color("#34d399")))
	} else {
		fmt.Fprintln(w, summary)
	}
	return len(errs)
}
