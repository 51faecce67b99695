package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdwalton/stateyear/internal/catalog"
	"github.com/cdwalton/stateyear/internal/join"
	"github.com/cdwalton/stateyear/internal/reconcile"
	"github.com/cdwalton/stateyear/internal/rules"
	"github.com/cdwalton/stateyear/internal/store"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Database  string
	Catalogue string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// MergeReport is the success payload of the merge command.
type MergeReport struct {
	RunID          string   `json:"run_id"`
	RulesApplied   int      `json:"rules_applied"`
	BaseRows       int      `json:"base_rows"`
	RegimeRows     int      `json:"regime_rows"`
	OutputRows     int      `json:"output_rows"`
	RowsDropped    int      `json:"rows_dropped"`
	RowsRecoded    int      `json:"rows_recoded"`
	RowsCopied     int      `json:"rows_copied"`
	UnmatchedCodes []int    `json:"unmatched_codes,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// String renders the report for text output.
func (r MergeReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d rules applied\n", r.RunID, r.RulesApplied)
	fmt.Fprintf(&b, "rows: base=%d regime=%d output=%d\n", r.BaseRows, r.RegimeRows, r.OutputRows)
	fmt.Fprintf(&b, "mutations: dropped=%d recoded=%d copied=%d", r.RowsDropped, r.RowsRecoded, r.RowsCopied)
	if len(r.UnmatchedCodes) > 0 {
		fmt.Fprintf(&b, "\nregime codes without capability counterpart: %v", r.UnmatchedCodes)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s", w)
	}
	return b.String()
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Reconcile codes and build the state-year table",
		Long: `Run the full pipeline: load both panels from the database, apply the
reconciliation catalogue to the regime panel, left-join onto the
capability panel, and store the result in the state_year table.

Every row mutation is journaled to recode_log under a fresh run id.

Example:
  stateyear merge --db ./panels.db
  stateyear merge --db ./panels.db --catalogue ./custom.cue --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Catalogue, "catalogue", "", "CUE catalogue replacing the built-in rules")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runMerge(opts *MergeOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	ctx := cmd.Context()

	seq := rules.Catalogue()
	if opts.Catalogue != "" {
		var err error
		seq, err = catalog.LoadFile(opts.Catalogue)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load catalogue", err)
		}
		slog.Info("custom catalogue loaded", "path", opts.Catalogue, "rules", len(seq))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	capability, err := st.LoadCapability(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load capability panel", err)
	}
	regime, err := st.LoadRegime(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load regime panel", err)
	}
	slog.Info("panels loaded", "capability_rows", capability.Len(), "regime_rows", regime.Len())

	// Diagnostic only: codes the reconciliation will not bridge.
	unmatched := reconcile.CodesOnlyIn(regime, capability)

	gen := opts.RunIDs
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	run, err := st.BeginRun(ctx, gen)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to begin run", err)
	}

	app, err := reconcile.New(seq, reconcile.WithJournal(run))
	if err != nil {
		return WrapExitError(ExitFailure, "invalid rule sequence", err)
	}
	res, err := app.Apply(regime, capability)
	if err != nil {
		return WrapExitError(ExitFailure, "reconciliation failed", err)
	}

	table, err := join.LeftJoin(capability, res.Relation)
	if err != nil {
		return WrapExitError(ExitFailure, "join failed", err)
	}

	if err := st.SaveStateYear(ctx, table); err != nil {
		return WrapExitError(ExitCommandError, "failed to save state-year table", err)
	}
	if err := run.Finish(capability.Len(), table.Len(), len(res.Warnings)); err != nil {
		return WrapExitError(ExitCommandError, "failed to finish run", err)
	}

	report := MergeReport{
		RunID:          run.ID,
		RulesApplied:   res.Stats.RulesApplied,
		BaseRows:       capability.Len(),
		RegimeRows:     regime.Len(),
		OutputRows:     table.Len(),
		RowsDropped:    res.Stats.RowsDropped,
		RowsRecoded:    res.Stats.RowsRecoded,
		RowsCopied:     res.Stats.RowsCopied,
		UnmatchedCodes: unmatched,
	}
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(report)
}
