package timeutil

import "testing"

func TestParseAndFormatTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"not-a-time", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got none", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatTimeOfDayRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "08:30", "23:59"} {
		m, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
		}
		if got := FormatTimeOfDay(m); got != s {
			t.Errorf("FormatTimeOfDay(%d) = %q, want %q", m, got, s)
		}
	}
}

// MinuteOfDay must be invariant under adding whole days.
func TestMinuteOfDayWrapsAcrossDays(t *testing.T) {
	for _, m := range []int{0, 1, 500, 1439} {
		if got, want := MinuteOfDay(m+MinutesPerDay), MinuteOfDay(m); got != want {
			t.Errorf("MinuteOfDay(%d+1440) = %d, want %d", m, got, want)
		}
		if got, want := MinuteOfDay(m+3*MinutesPerDay), MinuteOfDay(m); got != want {
			t.Errorf("MinuteOfDay(%d+3*1440) = %d, want %d", m, got, want)
		}
	}
}

func TestMinuteOfDayNegative(t *testing.T) {
	if got := MinuteOfDay(-1); got != 1439 {
		t.Errorf("MinuteOfDay(-1) = %d, want 1439", got)
	}
}

func TestNextBoardingSameDay(t *testing.T) {
	// Arrival at minute 100, min wait 10: earliest boarding is 110. A leg
	// departing at time-of-day 200 (same day 0) should board at 200.
	got := NextBoarding(100, 10, 200)
	if got != 200 {
		t.Errorf("NextBoarding(100, 10, 200) = %d, want 200", got)
	}
}

// Arrival effectively at 09:00 (minute 540), min_wait 30, only departure is
// 08:00 (tod 480). Earliest boarding is 09:30 (570); the same-time-of-day
// slot on day 0 (480) is already past, so the next day's instance
// (1440+480=1920) must be chosen.
func TestNextBoardingWrapsToNextDay(t *testing.T) {
	got := NextBoarding(540, 30, 480)
	if got != 1920 {
		t.Errorf("NextBoarding(540, 30, 480) = %d, want 1920", got)
	}
}

func TestNextBoardingExactlyAtEarliest(t *testing.T) {
	// candidate == earliest boarding instant is admissible (>=, not >).
	got := NextBoarding(0, 0, 0)
	if got != 0 {
		t.Errorf("NextBoarding(0, 0, 0) = %d, want 0", got)
	}
}

func TestDay(t *testing.T) {
	cases := []struct {
		minute int
		want   int
	}{
		{0, 0},
		{1439, 0},
		{1440, 1},
		{2880, 2},
	}
	for _, c := range cases {
		if got := Day(c.minute); got != c.want {
			t.Errorf("Day(%d) = %d, want %d", c.minute, got, c.want)
		}
	}
}
