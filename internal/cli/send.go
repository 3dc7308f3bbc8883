package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/emit/internal/config"
	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/sink"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Fields  []string // extra field declarations
	Vars    []string // name=value host bindings
	Target  string
	Ambient bool
}

// SendResult is the JSON payload of a successful send.
type SendResult struct {
	Target  string         `json:"target,omitempty"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields"`
	Hash    string         `json:"hash"`
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send <template>",
		Short: "Build a record and dispatch it to the configured sinks",
		Long: `Compile a template, capture its fields from --var bindings and dispatch the
record to the sinks named in --config (text logs on stderr by default).

--var values are parsed as YAML: n=3 is an integer, ok=true a bool,
tags='[a, b]' a list and who=ada a string.

Examples:
  emit send 'user {user} logged in {n: 2} times' --field user --var user=ada
  emit send 'charged {amount}' --field amount --var amount=1200 --target billing --config emit.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Fields, "field", "f", nil, "extra field declaration (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "host binding as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target sink name")
	cmd.Flags().BoolVar(&opts.Ambient, "ambient", false, "let bare holes bind --var values without an extra field")

	return cmd
}

func runSend(ctx context.Context, opts *SendOptions, template string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	scope, err := parseVars(opts.Vars)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	router, closer, err := config.Build(ctx, cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	reg := &engine.Registry{}
	reg.Install(router)
	emitter := engine.NewEmitter(
		engine.WithRegistry(reg),
		engine.WithAmbient(opts.Ambient || cfg.Ambient()),
	)

	plan, err := emitter.Compile(template, opts.Fields, opts.Target)
	if err != nil {
		_ = closer.Close()
		return failPipeline(formatter, err)
	}
	rec, err := emitter.EmitPlan(plan, scope)
	if err != nil {
		_ = closer.Close()
		return failPipeline(formatter, err)
	}

	// Closing flushes async sinks and surfaces write failures.
	if err := closer.Close(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}

	result := newSendResult(plan.Target, rec)
	formatter.VerboseLog("Dispatched %d field(s) to %s", rec.Len(), targetLabel(plan.Target, cfg))
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Sent to %s: %s\n", targetLabel(plan.Target, cfg), result.Message)
	return nil
}

func newSendResult(target string, rec *ir.Record) SendResult {
	hash, _ := ir.RecordID(target, rec)
	return SendResult{
		Target:  target,
		Message: sink.Render(rec),
		Fields:  recordFields(rec),
		Hash:    hash,
	}
}

// recordFields returns the record's values by name for JSON output.
func recordFields(rec *ir.Record) map[string]any {
	out := make(map[string]any, rec.Len())
	for _, kv := range rec.KVs {
		out[kv.Name] = kv.Value
	}
	return out
}

// targetLabel names where a record went: its target when a sink has that
// name, otherwise the default sink.
func targetLabel(target string, cfg *config.Config) string {
	for _, s := range cfg.Sinks {
		if target != "" && s.Name == target {
			return target
		}
	}
	if name := cfg.DefaultName(); name != "" {
		return name + " (default)"
	}
	return "nowhere (no sinks configured)"
}
