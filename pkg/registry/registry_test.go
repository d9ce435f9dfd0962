package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/pkg/domain"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("list_appointments", func(_ context.Context, call Call) (Result, error) {
		return Result{NextPage: "appointments_list", Messages: []string{call.Params["filter"].(string)}}, nil
	})
	r.RegisterFlow("triage", func(context.Context, Call) (Result, error) {
		return Result{NextPage: "main_menu"}, nil
	})

	res, err := r.Execute(context.Background(), domain.InvokeFunction("list_appointments", map[string]any{"filter": "upcoming"}), Call{})
	require.NoError(t, err)
	assert.Equal(t, Result{NextPage: "appointments_list", Messages: []string{"upcoming"}}, res)

	_, ok := r.Lookup(domain.NavigateFlow("triage"))
	assert.True(t, ok)
	_, ok = r.Lookup(domain.NavigatePage("triage"))
	assert.False(t, ok, "page navigation never goes through the registry")

	_, err = r.Execute(context.Background(), domain.NavigateFlow("unknown"), Call{})
	assert.Error(t, err)

	assert.Equal(t, []string{"list_appointments"}, r.Functions())
	assert.Equal(t, []string{"triage"}, r.Flows())

	var nilRegistry *Registry
	_, ok = nilRegistry.Lookup(domain.NavigateFlow("triage"))
	assert.False(t, ok)
}
