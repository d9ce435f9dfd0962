package catalogs_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/catalogs"
	"github.com/aretw0/pageflow/pkg/catalog"
	"github.com/aretw0/pageflow/pkg/domain"
)

func loadClinic(t *testing.T) *catalog.Catalog {
	t.Helper()
	pages, err := catalogs.Clinic().Load(context.Background())
	require.NoError(t, err)
	c, err := catalog.New(pages...)
	require.NoError(t, err)
	return c
}

func TestClinic_IsClean(t *testing.T) {
	c := loadClinic(t)
	report := catalog.Validate(c)
	assert.Empty(t, report.Issues, "clinic catalog should have no validation issues")
	assert.True(t, c.Has(catalogs.ClinicEntry))
}

func TestClinic_AppointmentPages(t *testing.T) {
	c := loadClinic(t)
	for _, name := range []string{"schedule_appointment", "list_appointments", "view_appointment", "cancel_appointment"} {
		assert.True(t, c.Has(name), name)
	}
}

func TestClinic_MainMenu(t *testing.T) {
	c := loadClinic(t)
	page, ok := c.Get("main_menu")
	require.True(t, ok)

	list, ok := page.Content.(domain.InteractiveList)
	require.True(t, ok)
	assert.Contains(t, list.Body, "{patient_name}")
	assert.ElementsMatch(t, []string{"SCHEDULE", "MY_APPOINTMENTS", "EXAMS", "INFO", "ATTENDANT"}, page.SelectionIDs())

	attendant := page.Transitions["ATTENDANT"]
	assert.Equal(t, "human_handoff", attendant.TargetFlow)
}

func TestClinicFS(t *testing.T) {
	entries, err := fs.ReadDir(catalogs.ClinicFS(), ".")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
