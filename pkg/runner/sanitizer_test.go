package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize))
	assert.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_EnvLimit(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	_, err := SanitizeInput("SCHEDULE")
	assert.NoError(t, err)
	_, err = SanitizeInput("SCHEDULES")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxInputSize, "not-a-number")
	_, err = SanitizeInput("SCHEDULES")
	assert.NoError(t, err)
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("MENU\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInput_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain id", "CANCEL_YES", "CANCEL_YES"},
		{"surrounding whitespace", "  MENU \n", "MENU"},
		{"inner whitespace collapses", "Opening\t\thours\r\nplease", "Opening hours please"},
		{"ansi escape", "\x1b[31mMENU\x1b[0m", "[31mMENU[0m"},
		{"nul and bell", "ME\x00N\aU", "MENU"},
		{"zero width space", "SCHE\u200bDULE", "SCHEDULE"},
		{"byte order mark", "\ufeffINFO", "INFO"},
		{"bidi override", "\u202eBACK", "BACK"},
		{"accents survive", "  Opções ", "Opções"},
		{"emoji survive", "👍", "👍"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
