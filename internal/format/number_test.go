package format

import "testing"

func TestNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{15600, "15.6K"},
		{999999, "1000.0K"},
		{1000000, "1.0M"},
		{3400000, "3.4M"},
	}

	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0d"},
		{12, "12d"},
		{29, "29d"},
		{30, "1mo"},
		{150, "5mo"},
		{364, "12mo"},
		{365, "1y 0mo"},
		{820, "2y 3mo"},
	}

	for _, tt := range tests {
		if got := Days(tt.in); got != tt.want {
			t.Errorf("Days(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(2.0 / 3.0); got != "0.67" {
		t.Errorf("Ratio() = %q, want 0.67", got)
	}
}
