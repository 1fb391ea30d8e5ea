package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// detailFlags collects activity details from --details JSON and repeated
// --detail key=value flags. Pairs win over JSON keys.
type detailFlags struct {
	pairs []string
	json  string
}

func (d *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&d.pairs, "detail", "d", nil,
		"activity detail as key=value (repeatable), e.g. --detail mode=car")
	cmd.Flags().StringVar(&d.json, "details", "", `activity details as a JSON object, e.g. '{"distance": 12}'`)
}

func (d *detailFlags) parse() (map[string]any, error) {
	details := map[string]any{}

	if strings.TrimSpace(d.json) != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(d.json)))
		dec.UseNumber()
		if err := dec.Decode(&details); err != nil {
			return nil, fmt.Errorf("parsing --details: %w", err)
		}
	}

	for _, pair := range d.pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --detail %q: want key=value", pair)
		}
		details[k] = strings.TrimSpace(v)
	}
	return details, nil
}
