package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/registry"
)

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func TestRunner_Execute(t *testing.T) {
	skipOnWindows(t)
	runner := NewRunner()
	ctx := context.Background()

	t.Run("Plain output becomes a message", func(t *testing.T) {
		runner.Register("hello", "echo", "hello")

		res, err := runner.Execute(ctx, "hello", registry.Call{})
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, res.Messages)
		assert.Empty(t, res.NextPage)
	})

	t.Run("Fails for unregistered command", func(t *testing.T) {
		_, err := runner.Execute(ctx, "hacker_script", registry.Call{})
		assert.ErrorContains(t, err, "not registered")
	})

	t.Run("Passes params and session via env", func(t *testing.T) {
		runner.Register("echo_env", "sh", "-c", `echo "$PAGEFLOW_ARG_PATIENT_ID $PAGEFLOW_SESSION_ID"`)

		res, err := runner.Execute(ctx, "echo_env", registry.Call{
			SessionID: "s1",
			Params:    map[string]any{"patient-id": 42},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"42 s1"}, res.Messages)
	})

	t.Run("JSON output steers the conversation", func(t *testing.T) {
		runner.Register("lookup", "sh", "-c",
			`echo '{"next_page":"exam_results","set_parameters":{"exam_count":2},"messages":["Found 2 exams"]}'`)

		res, err := runner.Execute(ctx, "lookup", registry.Call{})
		require.NoError(t, err)
		assert.Equal(t, "exam_results", res.NextPage)
		assert.Equal(t, float64(2), res.SetParameters["exam_count"])
		assert.Equal(t, []string{"Found 2 exams"}, res.Messages)
	})

	t.Run("Non-zero exit is an error with stderr", func(t *testing.T) {
		runner.Register("broken", "sh", "-c", "echo boom >&2; exit 3")

		_, err := runner.Execute(ctx, "broken", registry.Call{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestRunner_Install(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tools:
  - name: confirm_appointment
    command: sh
    args: ["-c", "echo Confirmed"]
    next_page: main_menu
  - name: schedule_flow
    kind: flow
    command: sh
    args: ["-c", 'printf ''{"messages":["Scheduling %s"]}'' "$PAGEFLOW_ARG_SPECIALTY"']
`), 0o644))

	tools, err := LoadTools(path)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	reg := registry.NewRegistry()
	NewRunner(WithRegistry(tools), WithBaseDir(dir)).Install(reg)
	assert.Equal(t, []string{"confirm_appointment"}, reg.Functions())
	assert.Equal(t, []string{"schedule_flow"}, reg.Flows())

	res, err := reg.Execute(context.Background(),
		domain.Action{Kind: domain.ActionInvokeFunction, Target: "confirm_appointment"}, registry.Call{})
	require.NoError(t, err)
	assert.Equal(t, "main_menu", res.NextPage)
	assert.Equal(t, []string{"Confirmed"}, res.Messages)

	res, err = reg.Execute(context.Background(),
		domain.Action{Kind: domain.ActionNavigateFlow, Target: "schedule_flow", Params: map[string]any{"specialty": "cardiology"}},
		registry.Call{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Scheduling cardiology"}, res.Messages)
}

func TestRunner_ParamRules(t *testing.T) {
	skipOnWindows(t)
	runner := NewRunner(WithRegistry(map[string]ProcessConfig{
		"fetch_exam_results": {
			Command: "sh",
			Args:    []string{"-c", "echo $PAGEFLOW_ARG_LIMIT"},
			Params:  map[string]string{"limit": "required,gte=1,lte=5"},
		},
	}))
	ctx := context.Background()

	res, err := runner.Execute(ctx, "fetch_exam_results", registry.Call{Params: map[string]any{"limit": 3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, res.Messages)

	_, err = runner.Execute(ctx, "fetch_exam_results", registry.Call{Params: map[string]any{"limit": 99}})
	assert.ErrorContains(t, err, "invalid params: limit")

	_, err = runner.Execute(ctx, "fetch_exam_results", registry.Call{})
	assert.ErrorContains(t, err, "invalid params")
}

func TestLoadTools(t *testing.T) {
	tools, err := LoadTools(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, tools)

	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":[{"name":"x","kind":"weird","command":"true"}]}`), 0o644))
	_, err = LoadTools(path)
	assert.ErrorContains(t, err, "unknown kind")
}
