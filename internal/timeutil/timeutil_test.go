package timeutil

import (
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00.00"},
		{"ninety seconds", 90, "00:01:30.00"},
		{"over an hour", 3661, "01:01:01.00"},
		{"fractional", 30.53, "00:00:30.53"},
		{"rounds sub-centisecond", 1.999, "00:00:02.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSeconds(tt.seconds); got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestMinutesToDuration(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		want    time.Duration
	}{
		{"whole minutes", 10, 10 * time.Minute},
		{"fractional", 1.5, 90 * time.Second},
		{"sub-minute", 0.25, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinutesToDuration(tt.minutes); got != tt.want {
				t.Errorf("MinutesToDuration(%v) = %v, want %v", tt.minutes, got, tt.want)
			}
		})
	}
}
