package forecast

import (
	"testing"
	"time"
)

func TestPeriod_Next(t *testing.T) {
	tests := []struct {
		in   Period
		want Period
	}{
		{Period{2024, time.January}, Period{2024, time.February}},
		{Period{2024, time.November}, Period{2024, time.December}},
		{Period{2024, time.December}, Period{2025, time.January}},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPeriod_Before(t *testing.T) {
	jan := Period{2024, time.January}
	dec := Period{2023, time.December}

	if !dec.Before(jan) {
		t.Error("expected 2023-12 before 2024-01")
	}
	if jan.Before(dec) {
		t.Error("expected 2024-01 not before 2023-12")
	}
	if jan.Before(jan) {
		t.Error("expected period not before itself")
	}
}

func TestPeriod_Formatting(t *testing.T) {
	p := NewPeriod(time.Date(2025, time.February, 17, 13, 0, 0, 0, time.UTC))

	if got := p.String(); got != "2025-02" {
		t.Errorf("String() = %q, want 2025-02", got)
	}
	if got := p.Label(); got != "February 2025" {
		t.Errorf("Label() = %q, want February 2025", got)
	}
}
