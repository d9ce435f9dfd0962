// Package catalogs embeds the page sets shipped with pageflow.
package catalogs

import (
	"embed"
	"io/fs"

	"github.com/aretw0/pageflow/pkg/adapters/file"
)

//go:embed clinic/*.yaml
var clinicFS embed.FS

// ClinicEntry is the entry page of the clinic catalog.
const ClinicEntry = "main_menu"

// Clinic returns a loader for the clinic assistant: main menu, appointment
// scheduling, listing and viewing, exam results and clinic information.
func Clinic() *file.Loader {
	return file.NewLoader(clinicFS, "clinic")
}

// ClinicFS exposes the raw page files, e.g. for exporting them to disk.
func ClinicFS() fs.FS {
	sub, _ := fs.Sub(clinicFS, "clinic")
	return sub
}
