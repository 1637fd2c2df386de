package log

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, " TEXT ": FormatText, "xml": DefaultFormat,
	} {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevel_String(t *testing.T) {
	var names []string
	for s := range Levels() {
		names = append(names, s)
	}

	if len(names) != 5 || names[0] != "trace" || names[4] != "error" {
		t.Errorf("Levels() = %v", names)
	}

	if got := Level(2).String(); got != "INFO+2" {
		t.Errorf("Level(2).String() = %q", got)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"", ""},
		{"none", ""},
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"rfc-3339", "2024-03-09T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"2006", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("format %q = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}
