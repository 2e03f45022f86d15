// Package tables reads and writes the plain-text table list consumed by
// the descriptor generator.
//
// The list holds one "schema table" record per line. Fields are separated
// by a single space and there is no quoting or escaping. Lines are trimmed
// of surrounding whitespace before parsing and blank lines are ignored.
package tables

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrMalformedRow is returned for a line that does not hold exactly one
// schema and one table token.
var ErrMalformedRow = errors.New("malformed row")

// Row is one parsed record of the table list.
type Row struct {
	Line   int    `json:"line" yaml:"line"`
	Schema string `json:"schema" yaml:"schema"`
	Table  string `json:"table" yaml:"table"`
}

// String formats the row the way it appears in the list file.
func (r Row) String() string {
	return r.Schema + " " + r.Table
}

// RowError describes a malformed line.
type RowError struct {
	Line   int
	Text   string
	Tokens int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: expected \"schema table\", got %d token(s): %q", e.Line, e.Tokens, e.Text)
}

// Unwrap lets errors.Is match ErrMalformedRow.
func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}

// ParseLine parses one line into a Row. The line is trimmed first and must
// then split on single spaces into exactly two non-empty tokens. Tabs are
// not separators. lineNo is recorded on the row and in errors.
func ParseLine(lineNo int, line string) (Row, error) {
	text := strings.TrimSpace(line)
	parts := strings.Split(text, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Row{}, &RowError{Line: lineNo, Text: text, Tokens: countTokens(parts)}
	}
	return Row{Line: lineNo, Schema: parts[0], Table: parts[1]}, nil
}

func countTokens(parts []string) int {
	n := 0
	for _, p := range parts {
		if p != "" {
			n++
		}
	}
	return n
}

// ReadLines returns every line of r in order with surrounding whitespace
// removed. Blank lines are kept so that line numbers stay aligned. Lines
// have no length limit.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Options controls how malformed rows are treated.
type Options struct {
	// Strict makes the first malformed row fatal. Otherwise malformed rows
	// are skipped and reported.
	Strict bool
	Logger *slog.Logger
}

// Result holds the rows of a list and the malformed lines that were skipped.
type Result struct {
	Rows    []Row
	Skipped []*RowError
}

// Parse reads a table list from r.
func Parse(r io.Reader, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table list: %w", err)
	}

	res := &Result{}
	for i, line := range lines {
		lineNo := i + 1
		if line == "" {
			logger.Debug("skipping blank line", slog.Int("line", lineNo))
			continue
		}

		row, err := ParseLine(lineNo, line)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) || opts.Strict {
				return nil, err
			}
			logger.Warn("skipping malformed row", slog.Int("line", lineNo), slog.String("text", rowErr.Text))
			res.Skipped = append(res.Skipped, rowErr)
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Load reads and parses the table list at path. A missing file is an error.
func Load(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table list: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Write emits rows in list format, one "schema table" per line.
func Write(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(r.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
