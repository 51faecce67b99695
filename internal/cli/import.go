package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/cdwalton/stateyear/internal/relation"
	"github.com/cdwalton/stateyear/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportReport is the success payload of the import command.
type ImportReport struct {
	Panel        string `json:"panel"`
	Path         string `json:"path"`
	Rows         int    `json:"rows"`
	SentinelNull int    `json:"sentinel_null,omitempty"`
}

// String renders the report for text output.
func (r ImportReport) String() string {
	s := fmt.Sprintf("imported %d rows from %s into %s panel", r.Rows, r.Path, r.Panel)
	if r.SentinelNull > 0 {
		s += fmt.Sprintf(" (%d sentinel values converted to missing)", r.SentinelNull)
	}
	return s
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <capability|regime> <file.csv>",
		Short: "Load a source panel from CSV into the database",
		Long: `Parse a panel CSV and replace the named table's contents. The header
row maps columns by name; unknown columns are ignored. Regime sentinel
codes -66, -77 and -88 (interruption, interregnum, transition) become
missing values, and country names are normalized to Unicode NFC.

Example:
  stateyear import capability ./NMC.csv --db ./panels.db
  stateyear import regime ./polity5.csv --db ./panels.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, cmd *cobra.Command, panel, path string) error {
	configureLogging(opts.Verbose)
	ctx := cmd.Context()

	var columns []string
	switch panel {
	case "capability":
		columns = store.CapabilityColumns
	case "regime":
		columns = store.RegimeColumns
	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown panel %q: must be capability or regime", panel), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open CSV", err)
	}
	defer f.Close()

	rel, sentinels, err := readPanelCSV(f, panel, columns)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to parse CSV", err)
	}
	slog.Info("panel parsed", "panel", panel, "rows", rel.Len(), "sentinel_null", sentinels)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch panel {
	case "capability":
		err = st.ImportCapability(ctx, rel)
	case "regime":
		err = st.ImportRegime(ctx, rel)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to import panel", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(ImportReport{
		Panel:        panel,
		Path:         path,
		Rows:         rel.Len(),
		SentinelNull: sentinels,
	})
}

// regimeSentinels are the regime panel's standardized authority codes for
// foreign interruption, interregnum and transition periods. They are
// annotations, not measurements, so import maps them to missing.
var regimeSentinels = map[float64]bool{-66: true, -77: true, -88: true}

// readPanelCSV parses a panel CSV into a relation. The header row is
// matched case-insensitively against ccode, year, country and the given
// measurement columns; columns the schema does not know are skipped.
// Returns the relation and the count of sentinel values nulled out.
func readPanelCSV(r io.Reader, name string, columns []string) (*relation.Relation, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	known := map[string]bool{"ccode": true, "year": true, "country": true}
	for _, c := range columns {
		known[c] = true
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if known[h] {
			index[h] = i
		}
	}
	if _, ok := index["ccode"]; !ok {
		return nil, 0, fmt.Errorf("header has no ccode column")
	}
	if _, ok := index["year"]; !ok {
		return nil, 0, fmt.Errorf("header has no year column")
	}

	applySentinels := name == "regime"
	rel := relation.New(name)
	sentinels := 0
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		line++

		rec := relation.Record{}
		rec.Code, err = strconv.Atoi(strings.TrimSpace(row[index["ccode"]]))
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: bad ccode %q", line, row[index["ccode"]])
		}
		rec.Year, err = strconv.Atoi(strings.TrimSpace(row[index["year"]]))
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: bad year %q", line, row[index["year"]])
		}
		if i, ok := index["country"]; ok {
			// Source files disagree on composed vs decomposed accents;
			// NFC keeps name comparisons byte-stable.
			rec.Country = norm.NFC.String(strings.TrimSpace(row[i]))
		}

		for _, col := range columns {
			i, ok := index[col]
			if !ok {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" || cell == "NA" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("line %d: bad %s value %q", line, col, cell)
			}
			if applySentinels && regimeSentinels[v] {
				sentinels++
				continue
			}
			if rec.Fields == nil {
				rec.Fields = make(map[string]float64, len(columns))
			}
			rec.Fields[col] = v
		}

		if err := rel.Append(rec); err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return rel, sentinels, nil
}
