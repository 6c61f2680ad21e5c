package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		order         ColumnOrder
		expectedItems int
		expectedFront string
		expectedBack  string
	}{
		{
			name:          "Front then back",
			input:         "ア,a",
			order:         FrontBack,
			expectedItems: 1,
			expectedFront: "ア",
			expectedBack:  "a",
		},
		{
			name:          "Back then front",
			input:         "a,あ",
			order:         BackFront,
			expectedItems: 1,
			expectedFront: "あ",
			expectedBack:  "a",
		},
		{
			name:          "Whitespace is trimmed",
			input:         "  ka ,  か  ",
			order:         BackFront,
			expectedItems: 1,
			expectedFront: "か",
			expectedBack:  "ka",
		},
		{
			name:          "Blank lines are skipped",
			input:         "\n\nア,a\n   \n",
			order:         FrontBack,
			expectedItems: 1,
			expectedFront: "ア",
			expectedBack:  "a",
		},
		{
			name:          "Windows line endings",
			input:         "ア,a\r\n",
			order:         FrontBack,
			expectedItems: 1,
			expectedFront: "ア",
			expectedBack:  "a",
		},
		{
			name:          "Malformed records are skipped",
			input:         "ア,a\nbroken\nイ,i,extra\nウ,u",
			order:         FrontBack,
			expectedItems: 2,
		},
		{
			name:          "Empty column is still two columns",
			input:         ",a",
			order:         FrontBack,
			expectedItems: 1,
			expectedFront: "",
			expectedBack:  "a",
		},
		{
			name:          "No records",
			input:         "",
			order:         FrontBack,
			expectedItems: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := Parse(strings.NewReader(tc.input), tc.order)
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(items) != tc.expectedItems {
				t.Fatalf("Expected %d items, but got %d", tc.expectedItems, len(items))
			}

			if tc.expectedItems == 1 {
				item := items[0]
				if item.Front != tc.expectedFront {
					t.Errorf("Expected Front to be '%s', but got '%s'", tc.expectedFront, item.Front)
				}
				if item.Back != tc.expectedBack {
					t.Errorf("Expected Back to be '%s', but got '%s'", tc.expectedBack, item.Back)
				}
			}
		})
	}
}

func TestParsePreservesOrder(t *testing.T) {
	items, err := Parse(strings.NewReader("ア,a\nイ,i\nウ,u\n"), FrontBack)
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	want := []string{"ア", "イ", "ウ"}
	for i, w := range want {
		if items[i].Front != w {
			t.Errorf("Expected item %d to be '%s', but got '%s'", i, w, items[i].Front)
		}
	}
}

func TestParseSkipsOversizedRecord(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	input := "一,ichi\r\n" + strings.Repeat("x", 70000) + "\r\n二,ni\r\n"
	items, err := Parse(strings.NewReader(input), FrontBack)
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, but got %d", len(items))
	}
	if items[1].Front != "二" || items[1].Back != "ni" {
		t.Errorf("Expected the record after the long line to load, but got %+v", items[1])
	}
	if !strings.Contains(logs.String(), "skipping malformed record") || !strings.Contains(logs.String(), "line=2") {
		t.Errorf("Expected a warning for line 2, but got %q", logs.String())
	}
	if logs.Len() > 1000 {
		t.Errorf("Expected the logged record to be truncated, but the log is %d bytes", logs.Len())
	}
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := Parse(strings.NewReader("a,\xff\xfe"), FrontBack)
	if !errors.Is(err, ErrNotUTF8) {
		t.Fatalf("Expected ErrNotUTF8, but got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numbers.csv")
	if err := os.WriteFile(path, []byte("一,ichi\n二,ni\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	items, err := ParseFile(path, FrontBack)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, but got %d", len(items))
	}
	if items[1].Back != "ni" {
		t.Errorf("Expected Back to be 'ni', but got '%s'", items[1].Back)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv"), FrontBack); err == nil {
		t.Error("Expected an error for a missing file, but got nil")
	}
}
