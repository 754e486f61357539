// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Input reading, output format selection and JSON printing
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// readText returns ticket text from --file, the first argument or stdin, in that order
func readText(file string, args []string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no ticket text provided")
	}
	return text, nil
}

// wantJSON resolves the --format flag for w. auto means JSON unless w is a terminal.
func wantJSON(mode string, w io.Writer) bool {
	switch mode {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
