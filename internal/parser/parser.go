package parser

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/conorfennell/kanadrill/internal/domain"
)

const (
	separator = ","
	// maxLoggedRecord caps how much of a malformed record is logged.
	maxLoggedRecord = 80
)

// ErrNotUTF8 is returned when a vocabulary source is not valid UTF-8 text.
var ErrNotUTF8 = errors.New("parser: source is not valid UTF-8")

// ColumnOrder says which column of a record holds the front of an item.
type ColumnOrder int

const (
	// FrontBack maps column 0 to Front and column 1 to Back.
	FrontBack ColumnOrder = iota
	// BackFront maps column 0 to Back and column 1 to Front.
	BackFront
)

// ParseFile reads a file from the given path and extracts all items.
func ParseFile(path string, order ColumnOrder) ([]domain.Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, order)
}

// Parse reads two-column comma separated records from r.
// Blank lines are skipped. Records that do not have exactly two columns are
// logged and skipped.
func Parse(r io.Reader, order ColumnOrder) ([]domain.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}

	var items []domain.Item

	// Lines are split in memory so no single record length can fail the set.
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, separator)
		if len(parts) != 2 {
			slog.Warn("skipping malformed record", "line", i+1, "record", truncate(line), "columns", len(parts))
			continue
		}

		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])
		switch order {
		case BackFront:
			items = append(items, domain.Item{Front: second, Back: first})
		default:
			items = append(items, domain.Item{Front: first, Back: second})
		}
	}

	return items, nil
}

func truncate(record string) string {
	if len(record) <= maxLoggedRecord {
		return record
	}
	r := []rune(record)
	if len(r) <= maxLoggedRecord {
		return record
	}
	return string(r[:maxLoggedRecord]) + "..."
}
