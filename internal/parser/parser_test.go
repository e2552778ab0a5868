package parser

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"Work", []string{"Work"}, false},
		{"Work/Client A/Feature X", []string{"Work", "Client A", "Feature X"}, false},
		{" /Work / Client A/ ", []string{"Work", "Client A"}, false},
		{"", nil, true},
		{"   ", nil, true},
		{"Work//Feature", nil, true},
		{"Work/ /Feature", nil, true},
	}

	for _, tt := range tests {
		got, err := SplitPath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitPath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPath(t *testing.T) {
	if IsPath("Work") || IsPath("/Work/") {
		t.Error("single segment should not be a path")
	}
	if !IsPath("Work/Client") {
		t.Error("expected path")
	}
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{"42", 42, false},
		{"#7", 7, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
		{"#", 0, true},
		{"99999999999", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTaskID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTaskID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTaskID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i).Add(15 * time.Hour)
		if got := WeekStart(day); !got.Equal(monday) {
			t.Errorf("WeekStart(%s) = %s, want %s", day.Weekday(), got, monday)
		}
	}
}

func TestParseWeek(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) // Thursday
	this := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", this, false},
		{"this", this, false},
		{"LAST", this.AddDate(0, 0, -7), false},
		{"-0", this, false},
		{"-3", this.AddDate(0, 0, -21), false},
		{"14/02/2024", time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), false},
		{"31/02/2024", time.Time{}, true},
		{"next", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseWeek(tt.in, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeek(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseWeek(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
