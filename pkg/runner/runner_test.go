package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/pkg/adapters/memory"
	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/dsl"
	"github.com/aretw0/pageflow/pkg/session"
)

func newTestService(t *testing.T) (*conversation.Service, *session.Manager) {
	t.Helper()
	b := dsl.New()
	b.Add("main_menu").
		Buttons("Hello {patient_name}").
		Button("GO", "Details").
		Button("HELP", "Help").
		On("GO", domain.ToPage("detail").WithParameters(map[string]any{"seen": "yes"})).
		Flow("HELP", "human_handoff")
	b.Add("detail").
		Buttons("The detail page").
		Button("BACK", "Back").
		Go("BACK", "main_menu")

	loader, err := b.Build()
	require.NoError(t, err)
	eng, err := pageflow.New(pageflow.WithLoader(loader))
	require.NoError(t, err)

	mgr := session.NewManager(memory.NewStore())
	return conversation.New(eng, mgr), mgr
}

func runScript(t *testing.T, script string) (string, *session.Manager) {
	t.Helper()
	svc, mgr := newTestService(t)
	out := &bytes.Buffer{}
	r := NewRunner(
		WithSessionID("tester"),
		WithInputHandler(NewTextHandler(strings.NewReader(script), out)),
	)
	require.NoError(t, r.Run(context.Background(), svc))
	return out.String(), mgr
}

func TestRunner_Navigates(t *testing.T) {
	out, mgr := runScript(t, "1\nback\nexit\n")

	assert.Contains(t, out, "Hello patient")
	assert.Contains(t, out, "The detail page")
	assert.Equal(t, 2, strings.Count(out, "Hello patient"))

	sess, err := mgr.Load(context.Background(), "tester")
	require.NoError(t, err)
	assert.Equal(t, "main_menu", sess.Page)
	assert.Equal(t, "yes", sess.Context["seen"])
}

func TestRunner_Unresolved(t *testing.T) {
	out, _ := runScript(t, "WRONG\n")
	assert.Contains(t, out, pageflow.DefaultTexts().UnresolvedText)
}

func TestRunner_PendingFlow(t *testing.T) {
	out, _ := runScript(t, "2\n")
	assert.Contains(t, out, `[System] No handler for navigate_flow "human_handoff"`)
	assert.Equal(t, 2, strings.Count(out, "Hello patient"))
}

func TestRunner_Restart(t *testing.T) {
	out, mgr := runScript(t, "1\n/restart\n")
	assert.Equal(t, 2, strings.Count(out, "Hello patient"))

	sess, err := mgr.Load(context.Background(), "tester")
	require.NoError(t, err)
	assert.Equal(t, "main_menu", sess.Page)
	assert.Empty(t, sess.Context)
}

func TestRunner_ResumesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Handle(ctx, "tester", conversation.Event{SelectionID: "GO"})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := NewRunner(WithSessionID("tester"), WithInputHandler(NewTextHandler(strings.NewReader(""), out)))
	require.NoError(t, r.Run(ctx, svc))
	assert.Contains(t, out.String(), "The detail page")
}
