package payroll

import (
	"testing"
	"time"
)

func TestResolvePeriodAugustBoundary(t *testing.T) {
	july := time.Date(2025, time.July, 31, 23, 59, 0, 0, time.UTC)
	august := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	before := ResolvePeriod(july)
	if before.YearStart != 2024 {
		t.Fatalf("expected yearStart 2024 for July 31, got %d", before.YearStart)
	}
	if before.Month != time.July {
		t.Fatalf("expected July, got %s", before.Month)
	}

	after := ResolvePeriod(august)
	if after.YearStart != 2025 {
		t.Fatalf("expected yearStart 2025 for August 1, got %d", after.YearStart)
	}
	if before.YearStart == after.YearStart {
		t.Fatal("July 31 and August 1 must resolve to different academic years")
	}
}

func TestResolvePeriodAcrossYear(t *testing.T) {
	cases := []struct {
		date      time.Time
		yearStart int
	}{
		{time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), 2026},
	}
	for _, tc := range cases {
		if got := ResolvePeriod(tc.date); got.YearStart != tc.yearStart {
			t.Fatalf("%s: expected yearStart %d, got %d", tc.date.Format("2006-01-02"), tc.yearStart, got.YearStart)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	p := Period{Month: time.October, YearStart: 2025}
	if p.Label() != "2025/2026" {
		t.Fatalf("expected label 2025/2026, got %s", p.Label())
	}
	if p.String() != "October 2025/2026" {
		t.Fatalf("unexpected period string %q", p.String())
	}
}

func TestPeriodEquality(t *testing.T) {
	a := Period{Month: time.March, YearStart: 2024}
	b := Period{Month: time.March, YearStart: 2024}
	c := Period{Month: time.March, YearStart: 2025}
	if a != b {
		t.Fatal("identical periods must compare equal")
	}
	if a == c {
		t.Fatal("periods in different academic years must differ")
	}
}
