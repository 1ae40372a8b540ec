package input

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextMock(t *testing.T) {
	mock := "mocked title"
	got, err := Text(strings.NewReader(""), &bytes.Buffer{}, "Title", &mock)
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if got != "mocked title" {
		t.Fatalf("expected mocked title, got %q", got)
	}
}

func TestTextReadsLine(t *testing.T) {
	var out bytes.Buffer
	got, err := Text(strings.NewReader("Fix the schema\n"), &out, "Title", nil)
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if got != "Fix the schema" {
		t.Fatalf("expected trimmed line, got %q", got)
	}
	if !strings.Contains(out.String(), "Title") {
		t.Fatalf("expected prompt written, got %q", out.String())
	}
}

func TestSelectMockIndex(t *testing.T) {
	for index, expected := range []string{"there", "are", "words"} {
		mock := index
		got, err := Select(strings.NewReader(""), &bytes.Buffer{}, "type", []string{"there", "are", "words"}, &mock)
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got != expected {
			t.Fatalf("expected %q at index %d, got %q", expected, index, got)
		}
	}
}

func TestSelectByNumber(t *testing.T) {
	var out bytes.Buffer
	got, err := Select(strings.NewReader("2\n"), &out, "Select state", []string{"Todo", "In Progress"}, nil)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got != "In Progress" {
		t.Fatalf("expected In Progress, got %q", got)
	}
}

func TestSelectRejectsBadNumber(t *testing.T) {
	_, err := Select(strings.NewReader("7\n"), &bytes.Buffer{}, "Select state", []string{"Todo"}, nil)
	if err == nil {
		t.Fatalf("expected error for out-of-range selection")
	}
}

func TestSelectEmptyOptions(t *testing.T) {
	_, err := Select(strings.NewReader(""), &bytes.Buffer{}, "Select", []string{}, nil)
	if err == nil {
		t.Fatalf("expected error for empty options")
	}
}
