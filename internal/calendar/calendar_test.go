package calendar

import (
	"testing"
	"time"
)

func TestSlots(t *testing.T) {
	t.Parallel()

	want := []string{"19:00", "19:30", "20:00", "20:30", "21:00"}
	got := Slots()

	if len(got) != len(want) {
		t.Fatalf("Slots() returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slots()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWeekdays(t *testing.T) {
	t.Parallel()

	t.Run("January 2025 excludes weekends", func(t *testing.T) {
		t.Parallel()

		days := Weekdays(2025, time.January)

		excluded := map[int]bool{4: true, 5: true, 11: true, 12: true, 18: true, 19: true, 25: true, 26: true}
		for _, day := range days {
			if excluded[day] {
				t.Errorf("Weekdays included weekend day %d", day)
			}
		}

		included := map[int]bool{}
		for _, day := range days {
			included[day] = true
		}
		for _, day := range []int{1, 2, 3, 6, 7, 8, 9, 10, 31} {
			if !included[day] {
				t.Errorf("Weekdays missing weekday %d", day)
			}
		}
		if len(days) != 23 {
			t.Errorf("Weekdays returned %d days, want 23", len(days))
		}
	})

	t.Run("February in a leap year", func(t *testing.T) {
		t.Parallel()

		days := Weekdays(2024, time.February)
		if days[len(days)-1] != 29 {
			// 2024-02-29 is a Thursday.
			t.Errorf("last weekday = %d, want 29", days[len(days)-1])
		}
	})

	t.Run("ascending order", func(t *testing.T) {
		t.Parallel()

		days := Weekdays(2025, time.March)
		for i := 1; i < len(days); i++ {
			if days[i] <= days[i-1] {
				t.Fatalf("days not strictly ascending: %v", days)
			}
		}
	})
}

func TestMonthGrid(t *testing.T) {
	t.Parallel()

	t.Run("January 2025 starts on Wednesday", func(t *testing.T) {
		t.Parallel()

		weeks := MonthGrid(2025, time.January)
		if len(weeks) != 5 {
			t.Fatalf("grid has %d weeks, want 5", len(weeks))
		}

		first := weeks[0]
		for i := 0; i < 2; i++ {
			if !first[i].Empty {
				t.Errorf("cell %d should be padding, got %+v", i, first[i])
			}
		}
		if first[2].Day != 1 || first[2].DateKey != "2025-01-01" {
			t.Errorf("first day cell = %+v, want day 1 at 2025-01-01", first[2])
		}
		if first[6].Day != 5 {
			t.Errorf("Sunday cell day = %d, want 5", first[6].Day)
		}
	})

	t.Run("trailing padding fills the last week", func(t *testing.T) {
		t.Parallel()

		weeks := MonthGrid(2025, time.January)
		last := weeks[len(weeks)-1]
		if last[4].Day != 31 {
			t.Errorf("cell for Jan 31 = %+v", last[4])
		}
		for i := 5; i < 7; i++ {
			if !last[i].Empty {
				t.Errorf("cell %d should be padding, got %+v", i, last[i])
			}
		}
	})

	t.Run("month starting on Monday has no leading padding", func(t *testing.T) {
		t.Parallel()

		weeks := MonthGrid(2025, time.September)
		if weeks[0][0].Day != 1 {
			t.Errorf("first cell = %+v, want day 1", weeks[0][0])
		}
	})
}

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Wednesday maps to preceding Monday", "2025-03-12", "2025-03-10"},
		{"Monday maps to itself", "2025-03-10", "2025-03-10"},
		{"Sunday maps back six days", "2025-03-16", "2025-03-10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in, err := ParseDate(tc.in)
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tc.in, err)
			}
			got := StartOfWeek(in)
			if got.Format(DateLayout) != tc.want {
				t.Errorf("StartOfWeek(%s) = %s, want %s", tc.in, got.Format(DateLayout), tc.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	if key := DateKey(2025, time.March, 9); key != "2025-03-09" {
		t.Errorf("DateKey = %q, want 2025-03-09", key)
	}
}
