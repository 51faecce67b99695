package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdwalton/stateyear/internal/catalog"
	"github.com/cdwalton/stateyear/internal/rules"
)

// RulesShowReport is the success payload of `rules show`.
type RulesShowReport struct {
	Rules []rules.Rule `json:"rules"`
}

// String renders the catalogue for text output, one rule per line.
func (r RulesShowReport) String() string {
	var b strings.Builder
	for i, rule := range r.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-28s %-18s %s", rule.ID, rule.Mode, describeRule(rule))
	}
	return b.String()
}

func describeRule(rule rules.Rule) string {
	var parts []string
	switch rule.Mode {
	case rules.ModeSwap:
		keys := make([]int, 0, len(rule.Mapping))
		for k := range rule.Mapping {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%d->%d", k, rule.Mapping[k]))
		}
		parts = append(parts, strings.Join(pairs, " "))
	case rules.ModeCopyForward:
		parts = append(parts, fmt.Sprintf("donor %d -> target %d", rule.Donor, rule.Target))
	default:
		srcs := make([]string, len(rule.Sources))
		for i, s := range rule.Sources {
			srcs[i] = fmt.Sprintf("%d", s)
		}
		parts = append(parts, fmt.Sprintf("%s -> %d", strings.Join(srcs, ","), rule.Target))
		for _, d := range rule.Drops {
			parts = append(parts, fmt.Sprintf("drop(%d,%d)", d.Code, d.Year))
		}
	}
	if len(rule.After) > 0 {
		parts = append(parts, fmt.Sprintf("after %s", strings.Join(rule.After, ",")))
	}
	return strings.Join(parts, " ")
}

// RulesValidateReport is the success payload of `rules validate`.
type RulesValidateReport struct {
	Path  string `json:"path"`
	Rules int    `json:"rules"`
}

// String renders the validation result for text output.
func (r RulesValidateReport) String() string {
	return fmt.Sprintf("%s: %d rules, catalogue valid", r.Path, r.Rules)
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate reconciliation catalogues",
	}

	cmd.AddCommand(newRulesShowCommand(rootOpts))
	cmd.AddCommand(newRulesValidateCommand(rootOpts))

	return cmd
}

func newRulesShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the built-in rule catalogue in application order",
		Long: `Print every rule of the built-in catalogue in the order the merge
command applies them.

Example:
  stateyear rules show
  stateyear rules show --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.Verbose)
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return formatter.Success(RulesShowReport{Rules: rules.Catalogue()})
		},
	}
}

func newRulesValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalogue.cue>",
		Short: "Compile and validate a replacement catalogue",
		Long: `Compile a CUE catalogue file against the rule schema, then check each
rule's mode-specific fields and the ordering constraints. Exits non-zero
with a position-annotated message on the first problem found.

Example:
  stateyear rules validate ./custom.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.Verbose)
			seq, err := catalog.LoadFile(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "catalogue invalid", err)
			}
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return formatter.Success(RulesValidateReport{Path: args[0], Rules: len(seq)})
		},
	}
}
