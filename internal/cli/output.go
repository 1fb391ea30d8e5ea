package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/footprint"
	"github.com/rshade/ecoquest/internal/greenops"
)

// Output formats.
const (
	formatTable  = "table"
	formatJSON   = "json"
	formatNDJSON = "ndjson"
)

// tabPadding is the column gap of table output.
const tabPadding = 2

func (a *app) format() string {
	return a.cfg.Output.DefaultFormat
}

// styled reports whether table output goes to a terminal and may use colour.
func (a *app) styled(cmd *cobra.Command) bool {
	if a.format() != formatTable {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTerminal(f)
}

// kg formats a footprint with the configured precision.
func (a *app) kg(v float64) string {
	return greenops.FormatFloat(v, a.cfg.Output.Precision)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// writeStructured writes v as JSON, or items line by line for ndjson. It
// reports false when the format is table and the caller must render.
func writeStructured[T any](w io.Writer, format string, v any, items []T) (bool, error) {
	switch format {
	case formatJSON:
		return true, writeJSON(w, v)
	case formatNDJSON:
		return true, writeNDJSON(w, items)
	default:
		return false, nil
	}
}

// printReport warns about details that fell back to defaults.
func printReport(w io.Writer, r footprint.ParseReport) {
	if len(r.Unknown) > 0 {
		fmt.Fprintf(w, "Warning: unrecognized value for %s, category default used\n", strings.Join(r.Unknown, ", "))
	}
	if len(r.Defaulted) > 0 {
		fmt.Fprintf(w, "Note: defaults used for %s\n", strings.Join(r.Defaulted, ", "))
	}
	if len(r.Clamped) > 0 {
		fmt.Fprintf(w, "Note: %s lowered to the maximum allowed value\n", strings.Join(r.Clamped, ", "))
	}
}

// equivalentText returns the everyday comparison for kg, or "".
func equivalentText(kg float64) string {
	eq, err := greenops.Equivalents(kg)
	if err != nil || eq.IsEmpty {
		return ""
	}
	return eq.DisplayText
}
