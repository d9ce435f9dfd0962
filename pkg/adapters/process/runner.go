// Package process serves registry functions and flows with allow-listed local commands.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/registry"
)

// EnvPrefix prefixes the variables handed to commands.
const EnvPrefix = "PAGEFLOW_"

var envKey = regexp.MustCompile(`[^A-Z0-9_]`)

// Runner executes registered commands. Only names in its allow-list can run.
type Runner struct {
	tools    map[string]ProcessConfig
	baseDir  string
	logger   *slog.Logger
	validate *validator.Validate
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(tools map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, tool := range tools {
			tool.Name = name
			r.tools[name] = tool
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		tools:    make(map[string]ProcessConfig),
		logger:   logging.NewNop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list as a function.
func (r *Runner) Register(name string, command string, args ...string) {
	r.tools[name] = ProcessConfig{Name: name, Kind: KindFunction, Command: command, Args: args}
}

// Install registers every tool as a function or flow handler.
func (r *Runner) Install(reg *registry.Registry) {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if r.tools[name].Kind == KindFlow {
			reg.RegisterFlow(name, r.Handler(name))
		} else {
			reg.RegisterFunction(name, r.Handler(name))
		}
	}
}

// Handler returns a registry handler running the named tool.
func (r *Runner) Handler(name string) registry.Handler {
	return func(ctx context.Context, call registry.Call) (registry.Result, error) {
		return r.Execute(ctx, name, call)
	}
}

// output is the JSON a command may print to steer the conversation.
type output struct {
	NextPage      string         `json:"next_page"`
	SetParameters map[string]any `json:"set_parameters"`
	Messages      []string       `json:"messages"`
}

// Execute runs the named tool for a call.
//
// Params are passed as PAGEFLOW_ARG_<NAME> variables, never as flags, and the
// session context as PAGEFLOW_CONTEXT (JSON). A JSON object on stdout is read
// as next_page, set_parameters and messages; any other output becomes one message.
func (r *Runner) Execute(ctx context.Context, name string, call registry.Call) (registry.Result, error) {
	tool, ok := r.tools[name]
	if !ok {
		return registry.Result{}, fmt.Errorf("process tool not registered: %s", name)
	}

	if err := r.checkParams(tool, call.Params); err != nil {
		return registry.Result{}, err
	}

	cmd := exec.CommandContext(ctx, tool.Command, tool.Args...)
	cmd.Dir = r.baseDir

	env := cmd.Environ()
	for k, v := range tool.Environment {
		env = append(env, k+"="+v)
	}
	for k, v := range call.Params {
		env = append(env, fmt.Sprintf("%sARG_%s=%s", EnvPrefix, envName(k), envValue(v)))
	}
	env = append(env, EnvPrefix+"SESSION_ID="+call.SessionID)
	if uctx, err := json.Marshal(call.Context); err == nil {
		env = append(env, EnvPrefix+"CONTEXT="+string(uctx))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running process tool", "tool", name, "command", tool.Command)
	if err := cmd.Run(); err != nil {
		return registry.Result{}, fmt.Errorf("tool %s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	res := registry.Result{NextPage: tool.NextPage}
	trimmed := strings.TrimSpace(stdout.String())
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var out output
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			if out.NextPage != "" {
				res.NextPage = out.NextPage
			}
			res.SetParameters = out.SetParameters
			res.Messages = out.Messages
			return res, nil
		}
	}
	if trimmed != "" {
		res.Messages = []string{trimmed}
	}
	return res, nil
}

func (r *Runner) checkParams(tool ProcessConfig, params map[string]any) error {
	if len(tool.Params) == 0 {
		return nil
	}
	rules := make(map[string]any, len(tool.Params))
	for k, rule := range tool.Params {
		rules[k] = rule
	}
	if params == nil {
		params = map[string]any{}
	}

	failed := r.validate.ValidateMap(params, rules)
	if len(failed) == 0 {
		return nil
	}
	keys := make([]string, 0, len(failed))
	for k := range failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fmt.Sprintf("%s: %v", k, failed[k])
	}
	return fmt.Errorf("tool %s: invalid params: %s", tool.Name, strings.Join(msgs, "; "))
}

func envName(key string) string {
	return envKey.ReplaceAllString(strings.ToUpper(key), "_")
}

func envValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string, int, int64, float64, bool:
		return fmt.Sprintf("%v", v)
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}
