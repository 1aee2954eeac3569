package calendar

import (
	"testing"
	"time"
)

func TestExpiryDateMonthly(t *testing.T) {
	tests := []struct {
		code string
		want time.Time
	}{
		{"202401", time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)},  // 3rd Wednesday
		{"202402", time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)},
		{"202412", time.Date(2024, 12, 18, 0, 0, 0, 0, time.UTC)},
		{"202401.0", time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)}, // float-tailed code
		{" 202401 ", time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ExpiryDate(tt.code)
		if !ok {
			t.Errorf("ExpiryDate(%q) not ok, want %v", tt.code, tt.want)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ExpiryDate(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestExpiryDateWeekly(t *testing.T) {
	tests := []struct {
		code string
		want time.Time
	}{
		{"202402W2", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)}, // 2nd Wednesday
		{"202401W1", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{"202401F1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}, // 1st Friday
		{"202401w4", time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)},
		{"202401f2", time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ExpiryDate(tt.code)
		if !ok {
			t.Errorf("ExpiryDate(%q) not ok, want %v", tt.code, tt.want)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ExpiryDate(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestExpiryDateMalformed(t *testing.T) {
	codes := []string{"", "abc", "2024", "20240", "2024ab", "209913", "202400", "202401X1", "202401W", "202401Wx"}

	for _, code := range codes {
		if got, ok := ExpiryDate(code); ok {
			t.Errorf("ExpiryDate(%q) = %v, want not ok", code, got)
		}
	}
}

func TestNthWeekday(t *testing.T) {
	// January 2024 starts on a Monday.
	got := NthWeekday(2024, time.January, time.Wednesday, 3)
	want := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NthWeekday = %v, want %v", got, want)
	}

	// A count beyond the month keeps scanning forward, per the exchange
	// code convention.
	got = NthWeekday(2024, time.January, time.Wednesday, 6)
	want = time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NthWeekday overflow = %v, want %v", got, want)
	}
}
