package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdwalton/stateyear/internal/reconcile"
	"github.com/cdwalton/stateyear/internal/rules"
	"github.com/cdwalton/stateyear/internal/store"
)

// ConflictsOptions holds flags for the conflicts command.
type ConflictsOptions struct {
	*RootOptions
	Database string
}

// OverlapReport describes the live overlap between one rule's codes.
type OverlapReport struct {
	RuleID string `json:"rule_id"`
	Source int    `json:"source"`
	Target int    `json:"target"`
	Years  []int  `json:"years,omitempty"`
}

// ConflictsReport is the success payload of the conflicts command.
type ConflictsReport struct {
	RegimeOnlyCodes     []int           `json:"regime_only_codes,omitempty"`
	CapabilityOnlyCodes []int           `json:"capability_only_codes,omitempty"`
	Overlaps            []OverlapReport `json:"overlaps,omitempty"`
}

// String renders the report for text output.
func (r ConflictsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "codes only in regime panel: %v\n", r.RegimeOnlyCodes)
	fmt.Fprintf(&b, "codes only in capability panel: %v", r.CapabilityOnlyCodes)
	for _, ov := range r.Overlaps {
		fmt.Fprintf(&b, "\n%s: codes %d/%d overlap in years %v", ov.RuleID, ov.Source, ov.Target, ov.Years)
	}
	return b.String()
}

// NewConflictsCommand creates the conflicts command.
func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConflictsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Diagnose code-space conflicts between the two panels",
		Long: `Enumerate codes present in only one panel's code space, and the years
in which each catalogued rule's rival codes both report records. Purely
diagnostic; nothing is modified.

Example:
  stateyear conflicts --db ./panels.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConflicts(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runConflicts(opts *ConflictsOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	ctx := cmd.Context()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	capability, err := st.LoadCapability(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load capability panel", err)
	}
	regime, err := st.LoadRegime(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load regime panel", err)
	}

	report := ConflictsReport{
		RegimeOnlyCodes:     reconcile.CodesOnlyIn(regime, capability),
		CapabilityOnlyCodes: reconcile.CodesOnlyIn(capability, regime),
	}

	// Live overlap for every pair a drop rule arbitrates, against the
	// regime panel as it stands.
	for _, rule := range rules.Catalogue() {
		if rule.Mode != rules.ModeRecodeWithDrop {
			continue
		}
		for _, source := range rule.Sources {
			ov := reconcile.Overlap(source, rule.Target, regime)
			// Overlap restricts both codes to shared years, so either
			// side's year list is the overlap set.
			years := ov.Years(source)
			if len(years) == 0 {
				continue
			}
			report.Overlaps = append(report.Overlaps, OverlapReport{
				RuleID: rule.ID,
				Source: source,
				Target: rule.Target,
				Years:  years,
			})
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(report)
}
