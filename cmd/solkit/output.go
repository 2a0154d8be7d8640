package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// write renders v as indented JSON, or with text when the output format is
// text.
func (a *app) write(ctx context.Context, v interface{}, text func(w io.Writer) error) error {
	if a.output.Get(ctx) == outputJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(a.out)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
