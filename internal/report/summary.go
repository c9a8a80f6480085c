package report

import (
	"fmt"
	"sort"
	"time"

	"inv-go/internal/inv"
	"inv-go/internal/model"
)

// Range selects the records covered by a SIP report.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week" // today and the six days before it
	RangeAll   Range = "all"
)

// ParseRange validates a range name.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeToday, RangeWeek, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("unknown range %q (want today, week or all)", s)
	}
}

// Window returns the inclusive time window of r at now.
func (r Range) Window(now time.Time) (from, to time.Time) {
	switch r {
	case RangeToday:
		return inv.StartOfDay(now), inv.EndOfDay(now)
	case RangeWeek:
		return weekStart(now), inv.EndOfDay(now)
	default:
		return time.Time{}, now
	}
}

func weekStart(now time.Time) time.Time {
	return inv.StartOfDay(now.AddDate(0, 0, -6))
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// RecordsIn returns the records created inside r's window, in stored order.
func RecordsIn(snap *model.Snapshot, r Range, now time.Time) []model.Record {
	from, to := r.Window(now)
	var out []model.Record
	for _, rec := range snap.Records {
		if within(rec.CreatedAt, from, to) {
			out = append(out, rec)
		}
	}
	return out
}

// WeeklyRecords returns the records of the last seven days, oldest first.
func WeeklyRecords(snap *model.Snapshot, now time.Time) []model.Record {
	out := RecordsIn(snap, RangeWeek, now)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// DayCount is the number of records created on one calendar day.
type DayCount struct {
	Day   time.Time // midnight, in the location of the reporting time
	Count int
}

// Summary holds the headline numbers of the summary sheet.
type Summary struct {
	ExportedAt time.Time
	Capacity   int
	Stock      int
	Used       int
	Total      int
	Today      int
	Week       int // created since the start of the 7-day window
	Month      int // created since the first of the month
	Days       []DayCount // last 7 days, oldest first
}

// Summarize computes the summary statistics of snap as seen at now.
func Summarize(snap *model.Snapshot, now time.Time) Summary {
	s := Summary{
		ExportedAt: now,
		Capacity:   snap.Inventory.Capacity,
		Stock:      snap.Inventory.Stock,
		Used:       snap.Inventory.Used(),
		Total:      len(snap.Records),
	}

	todayFrom, todayTo := RangeToday.Window(now)
	week := weekStart(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, rec := range snap.Records {
		if within(rec.CreatedAt, todayFrom, todayTo) {
			s.Today++
		}
		if !rec.CreatedAt.Before(week) {
			s.Week++
		}
		if !rec.CreatedAt.Before(month) {
			s.Month++
		}
	}

	for i := 6; i >= 0; i-- {
		day := inv.StartOfDay(now.AddDate(0, 0, -i))
		dc := DayCount{Day: day}
		for _, rec := range snap.Records {
			if within(rec.CreatedAt, day, inv.EndOfDay(day)) {
				dc.Count++
			}
		}
		s.Days = append(s.Days, dc)
	}
	return s
}
