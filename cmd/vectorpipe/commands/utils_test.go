// ABOUTME: Tests for CLI utility functions
// ABOUTME: Covers truncation, time formatting, and validation helpers

package commands

import (
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"tiny max", "hello", 3, "hel"},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncate_Unicode(t *testing.T) {
	got := truncate("héllo wörld", 8)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate should append ellipsis, got %q", got)
	}
	if len([]rune(got)) != 8 {
		t.Errorf("truncated length = %d runes, want 8", len([]rune(got)))
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "never"},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-2 * 24 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTime(tt.t)
			if got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTime_OldDatesUseCalendarFormat(t *testing.T) {
	old := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	got := formatTime(old)
	if got != "2024-03-15" {
		t.Errorf("formatTime() = %q, want %q", got, "2024-03-15")
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("validatePositiveInt(5) error = %v, want nil", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("validatePositiveInt(0) should return error")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil {
		t.Error("validatePositiveInt(-1) should return error")
	}
	if err := validatePositiveInt(-1, "limit"); err != nil && !strings.Contains(err.Error(), "limit") {
		t.Errorf("error should name the flag, got %v", err)
	}
}
