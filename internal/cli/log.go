package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/config"
	"github.com/roach88/emit/internal/query"
	"github.com/roach88/emit/internal/sink"
	"github.com/roach88/emit/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	DB     string   // path to SQLite database
	Target string   // only records sent to this target
	After  int64    // only records with seq greater than this
	Where  []string // name=value field filters
	Limit  int      // at most this many records; 0 means all
	Replay bool     // re-dispatch to the configured sinks instead of printing
}

// LogEntry is one stored record in JSON output.
type LogEntry struct {
	ID      string         `json:"id"`
	Seq     int64          `json:"seq"`
	Target  string         `json:"target,omitempty"`
	Hash    string         `json:"hash"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields"`
}

// LogResult is the JSON payload of the log command.
type LogResult struct {
	Records  []LogEntry `json:"records"`
	Replayed int        `json:"replayed,omitempty"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show or replay records from a SQLite store",
		Long: `Read records written by a sqlite sink, in emission order.

--where name=value keeps records whose field holds exactly that value. Values
are YAML like --var in send: n=3 matches the integer 3 and n='"3"' the string.

With --replay the selected records are dispatched again, with their original
targets, to the sinks named in --config.

Examples:
  emit log --db audit.db
  emit log --db audit.db --target billing --format json
  emit log --db audit.db --where user=ada --limit 10
  emit log --db audit.db --after 100 --replay --config emit.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "only records sent to this target")
	cmd.Flags().Int64Var(&opts.After, "after", 0, "only records with seq greater than this")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "only records whose field equals a value, as name=value (repeatable)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of records (0 = all)")
	cmd.Flags().BoolVar(&opts.Replay, "replay", false, "re-dispatch records to the configured sinks")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runLog(ctx context.Context, opts *LogOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	q, err := recordQuery(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	// Report a missing file by name rather than as a driver error.
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB), nil)
	}
	st, err := store.OpenReadOnly(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if opts.Replay {
		return runReplay(ctx, opts, st, q, formatter)
	}

	records, err := st.Query(ctx, q)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	formatter.VerboseLog("Read %d record(s) from %s", len(records), opts.DB)

	result := LogResult{Records: make([]LogEntry, len(records))}
	for i, r := range records {
		result.Records[i] = newLogEntry(r)
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(records) == 0 {
		fmt.Fprintln(w, "No records.")
		return nil
	}
	for _, e := range result.Records {
		target := e.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "%6d  %s  %-12s  %s\n", e.Seq, e.ID, target, e.Message)
	}
	return nil
}

// recordQuery turns the filter flags into a store query.
func recordQuery(opts *LogOptions) (query.Query, error) {
	where, err := parseAssignments("--where", opts.Where)
	if err != nil {
		return query.Query{}, err
	}

	var preds []query.Predicate
	if opts.Target != "" {
		preds = append(preds, query.TargetIs{Target: opts.Target})
	}
	if opts.After > 0 {
		preds = append(preds, query.SeqAfter{Seq: opts.After})
	}
	for _, name := range where.Names() {
		value, err := capture.FromGo(where[name])
		if err != nil {
			return query.Query{}, fmt.Errorf("invalid --where %q: %w", name, err)
		}
		preds = append(preds, query.FieldEquals{Name: name, Value: value})
	}

	q := query.Where(preds...)
	q.Limit = opts.Limit
	return q, query.Validate(q)
}

func runReplay(ctx context.Context, opts *LogOptions, st *store.Store, q query.Query, formatter *OutputFormatter) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	router, closer, err := config.Build(ctx, cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	n, err := st.Replay(ctx, router, q)
	closeErr := closer.Close()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	if closeErr != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, closeErr.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(LogResult{Records: []LogEntry{}, Replayed: n})
	}
	fmt.Fprintf(formatter.Writer, "✓ Replayed %d record(s)\n", n)
	return nil
}

func newLogEntry(r store.StoredRecord) LogEntry {
	return LogEntry{
		ID:      r.ID,
		Seq:     r.Seq,
		Target:  r.TargetName(),
		Hash:    r.Hash,
		Message: sink.Render(r.Record),
		Fields:  recordFields(r.Record),
	}
}
