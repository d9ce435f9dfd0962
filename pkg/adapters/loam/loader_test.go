package loam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/internal/testutils"
	"github.com/aretw0/pageflow/pkg/domain"
)

func TestLoader_Load(t *testing.T) {
	tmpDir, _ := testutils.SetupTestRepo(t)

	files := map[string]string{
		"main_menu.md": `---
message_type: button
buttons:
  - id: contact
    label: Contact
transitions:
  contact:
    target_page: contact
    event_log: menu_contact
---
Hello {patient_name}, how can we help?`,
		"contact.md": "---\nname: contact\n---\nCall 555-0100",
	}

	testutils.WriteFiles(t, tmpDir, files)

	loader, err := Open(tmpDir)
	require.NoError(t, err)

	pages, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	byName := map[string]domain.Page{}
	for _, p := range pages {
		byName[p.Name] = p
	}

	menu, ok := byName["main_menu"]
	require.True(t, ok, "name is implied from the filename")
	assert.Equal(t, domain.ButtonMenu{
		Body:    "Hello {patient_name}, how can we help?",
		Buttons: []domain.Button{{ID: "contact", Label: "Contact"}},
	}, menu.Content)
	assert.Equal(t, domain.ToPage("contact").WithEvent("menu_contact"), menu.Transitions["contact"])

	assert.Equal(t, domain.PlainText{Text: "Call 555-0100"}, byName["contact"].Content)
}

func TestLoader_DetectsCollisions(t *testing.T) {
	tmpDir, _ := testutils.SetupTestRepo(t)

	files := map[string]string{
		"foo.md":   "---\nname: foo\n---\nExplicit name",
		"foo.json": `{"name": "foo", "text": "also foo"}`,
	}
	testutils.WriteFiles(t, tmpDir, files)

	loader, err := Open(tmpDir)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "menus/main", trimExtension("menus/main.md"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
