package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword wraps term.ReadPassword so tests never touch a terminal.
var readPassword = term.ReadPassword

// GetSimpleText writes prompt followed by "> " to w and returns the next
// line from reader with surrounding spaces removed. A last line without a
// newline is still accepted; an empty stream returns io.EOF.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetGrams prompts until the answer parses as a positive amount of grams
// ("12", "12.5", "12g"). It gives up after attempts tries.
func GetGrams(reader *bufio.Reader, prompt string, w io.Writer, attempts int) (float64, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		raw, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return 0, err
		}
		v, err := parseGrams(raw)
		if err == nil && v > 0 {
			return v, nil
		}
		if err == nil {
			err = fmt.Errorf("must be positive: %q", raw)
		}
		lastErr = err
		fmt.Fprintln(w, err.Error())
	}
	return 0, lastErr
}

// GetPassword reads a password from stdin without echo. The caller wipes
// the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	// the terminal swallowed the user's newline
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
