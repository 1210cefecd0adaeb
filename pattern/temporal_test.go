package pattern

import (
	"testing"
	"time"
)

func TestParseDate_Valid(t *testing.T) {
	got, ok := ParseDate("2025-03-10")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_TrimsWhitespace(t *testing.T) {
	if _, ok := ParseDate("  2025-03-10  "); !ok {
		t.Error("surrounding whitespace should be ignored")
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, text := range []string{"", "   ", "10/03/2025", "2025-3-10", "2025-03-10T00:00:00", "not a date"} {
		if _, ok := ParseDate(text); ok {
			t.Errorf("expected %q to fail", text)
		}
	}
}

func TestParseTimestamp_BothLayouts(t *testing.T) {
	want := time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)

	for _, text := range []string{"2025-03-10 08:30:00", "2025-03-10T08:30:00"} {
		got, ok := ParseTimestamp(text)
		if !ok {
			t.Fatalf("expected %q to parse", text)
		}
		if !got.Equal(want) {
			t.Errorf("%q: expected %v, got %v", text, want, got)
		}
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, text := range []string{"", "2025-03-10", "08:30:00", "2025-03-10 8:30"} {
		if _, ok := ParseTimestamp(text); ok {
			t.Errorf("expected %q to fail", text)
		}
	}
}
