package domain

const (
	// DefaultEntryPage is the page conversations start from when none is configured.
	DefaultEntryPage = "main_menu"

	// PlaceholderPatientName is the recipient's display name placeholder.
	PlaceholderPatientName = "patient_name"
)
