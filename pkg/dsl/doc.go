/*
Package dsl provides a fluent Go builder for page catalogs.

It is an alternative to YAML page files when catalogs are generated in code,
in unit tests, or when IDE completion and type-checking are preferred.

Example usage:

	b := dsl.New()

	b.Add("menu").
		Buttons("Hi {patient_name}, what do you need?").
		Button("GO", "Details").
		Button("HELP", "Talk to us").
		Go("GO", "detail").
		On("HELP", domain.ToFlow("human_handoff").WithEvent("help_requested")).
		Placeholder("patient_name", "there")

	b.Add("detail").Text("Here are the details.")

	loader, err := b.Build() // a ports.CatalogLoader
*/
package dsl
