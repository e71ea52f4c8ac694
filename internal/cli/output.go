package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output format names accepted by the --output flag.
const (
	outputTable = "table"
	outputCSV   = "csv"
	outputJSON  = "json"
)

const flagDateLayout = "2006-01-02"

// timeRounding trims elapsed durations for display.
const timeRounding = 100 * time.Millisecond

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRaw writes pre-encoded bytes, terminating with a newline when the
// payload does not already end in one.
func writeRaw(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func unknownOutputErr(output string) error {
	return fmt.Errorf("unknown output format %q (want %s, %s or %s)",
		output, outputTable, outputCSV, outputJSON)
}

// parseDateFlag parses a YYYY-MM-DD flag value, treating "" as the zero
// time so downstream defaulting applies.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(flagDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, value)
	}
	return t, nil
}
