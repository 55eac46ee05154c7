package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Outputter is implemented by command results.
type Outputter interface {
	// ToJSON returns the data structure for JSON/YAML marshaling
	ToJSON() any
	// ToText writes human-readable text format
	ToText(w io.Writer)
}

// Output writes o to w in the requested format.
func Output(w io.Writer, o Outputter, format string) error {
	switch normalizeFormat(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o.ToJSON())
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(o.ToJSON()); err != nil {
			return err
		}
		return enc.Close()
	default:
		o.ToText(w)
		return nil
	}
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "yml" {
		return "yaml"
	}
	return f
}

func validateFormat(format string) error {
	switch normalizeFormat(format) {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid format %q: use text, json or yaml", format)
	}
}

// setupFormatFlag configures the format flag and its validation for cmd.
func setupFormatFlag(cmd *cobra.Command, formatPtr *string) {
	cmd.Flags().StringVarP(formatPtr, "format", "f", "text", "Output format: text, json, or yaml")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		*formatPtr = normalizeFormat(*formatPtr)
		return validateFormat(*formatPtr)
	}
}
