package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"inv-go/internal/model"
	"inv-go/internal/report"
)

// Monday 2024-01-15 10:30 UTC.
var now = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func at(days int, hour int) time.Time {
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func sampleSnapshot() *model.Snapshot {
	snap := model.DefaultSnapshot()
	snap.Inventory = model.Counter{Capacity: 50, Stock: 46}
	snap.Cable = model.Counter{Capacity: 300, Stock: 270}
	snap.Records = []model.Record{
		{ID: "r4", Number: "4444", Note: "", CreatedAt: at(0, 9)},
		{ID: "r3", Number: "3333", Note: `10m, "blue"`, CreatedAt: at(-2, 14)},
		{ID: "r2", Number: "2222", Note: "20m", CreatedAt: at(-6, 8)},
		{ID: "r1", Number: "1111", Note: "old", CreatedAt: at(-20, 8)},
	}
	snap.Logs = []model.LogEntry{
		{ID: "l2", Kind: model.LogKindRecord, Message: `SIP "4444" added`, Delta: -1, CreatedAt: at(0, 9)},
		{ID: "l1", Kind: model.LogKindSystem, Message: "capacity set", Delta: 0, CreatedAt: at(-20, 7)},
	}
	return snap
}

func TestParseRange(t *testing.T) {
	for _, s := range []string{"today", "week", "all"} {
		r, err := report.ParseRange(s)
		if err != nil || string(r) != s {
			t.Errorf("ParseRange(%q) = %q, %v", s, r, err)
		}
	}
	if _, err := report.ParseRange("month"); err == nil {
		t.Error("ParseRange(month) error = nil, want error")
	}
}

func TestRecordsIn(t *testing.T) {
	tests := []struct {
		name  string
		r     report.Range
		wants []string
	}{
		{"today", report.RangeToday, []string{"r4"}},
		{"week", report.RangeWeek, []string{"r4", "r3", "r2"}},
		{"all", report.RangeAll, []string{"r4", "r3", "r2", "r1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.RecordsIn(sampleSnapshot(), tt.r, now)
			if len(got) != len(tt.wants) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wants))
			}
			for i, id := range tt.wants {
				if got[i].ID != id {
					t.Errorf("[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestWeeklyRecordsOldestFirst(t *testing.T) {
	got := report.WeeklyRecords(sampleSnapshot(), now)
	want := []string{"r2", "r3", "r4"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	s := report.Summarize(sampleSnapshot(), now)

	if s.Capacity != 50 || s.Stock != 46 || s.Used != 4 || s.Total != 4 {
		t.Errorf("totals = %+v", s)
	}
	if s.Today != 1 {
		t.Errorf("Today = %d, want 1", s.Today)
	}
	if s.Week != 3 {
		t.Errorf("Week = %d, want 3", s.Week)
	}
	// r2 (Jan 9) and r3 (Jan 13) and r4 (Jan 15); r1 is in December.
	if s.Month != 3 {
		t.Errorf("Month = %d, want 3", s.Month)
	}
	if len(s.Days) != 7 {
		t.Fatalf("len(Days) = %d, want 7", len(s.Days))
	}
	if !s.Days[0].Day.Equal(at(-6, 0)) || !s.Days[6].Day.Equal(at(0, 0)) {
		t.Errorf("Days span %v..%v", s.Days[0].Day, s.Days[6].Day)
	}
	counts := make([]int, 7)
	for i, d := range s.Days {
		counts[i] = d.Count
	}
	want := []int{1, 0, 0, 0, 1, 0, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("Days counts = %v, want %v", counts, want)
			break
		}
	}
}

func TestWriteCSV(t *testing.T) {
	snap := sampleSnapshot()
	snap.Records = snap.Records[1:2]

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, snap); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"type,id,number,note,delta,message,createdAt",
		`sip,r3,3333,"10m, ""blue""",,,2024-01-13T14:00:00Z`,
		`sip,l2,,,-1,"SIP ""4444"" added",2024-01-15T09:00:00Z`,
		`sys,l1,,,0,"capacity set",2023-12-26T07:00:00Z`,
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, model.DefaultSnapshot()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "type,id,number,note,delta,message,createdAt\n" {
		t.Errorf("WriteCSV() = %q", buf.String())
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteRecordsCSV(&buf, sampleSnapshot(), report.RangeWeek, now); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"id,number,note,createdAt",
		"r4,4444,,2024-01-15T09:00:00Z",
		`r3,3333,"10m, ""blue""",2024-01-13T14:00:00Z`,
		"r2,2222,20m,2024-01-09T08:00:00Z",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("WriteRecordsCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func openWorkbook(t *testing.T, snap *model.Snapshot) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, snap, now); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rs, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", sheet, err)
	}
	return rs
}

func TestWriteWorkbook(t *testing.T) {
	f := openWorkbook(t, sampleSnapshot())

	sheets := f.GetSheetList()
	want := []string{report.SheetWeekly, report.SheetSummary, report.SheetInventory, report.SheetRecords, report.SheetLogs}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}

	weekly := rows(t, f, report.SheetWeekly)
	if len(weekly) != 4 {
		t.Fatalf("weekly rows = %d, want 4", len(weekly))
	}
	if got := strings.Join(weekly[1], "|"); got != "Tuesday|09/01/2024|08:00:00|January|2222|20m" {
		t.Errorf("weekly[1] = %s", got)
	}

	summary := rows(t, f, report.SheetSummary)
	if summary[1][0] != "Capacity" || summary[1][1] != "50" {
		t.Errorf("summary[1] = %v", summary[1])
	}
	if summary[3][1] != "4" {
		t.Errorf("used = %v, want 4", summary[3])
	}
	last := summary[len(summary)-1]
	if last[0] != "Mon 15/01" || last[1] != "1" {
		t.Errorf("last summary row = %v", last)
	}

	inventory := rows(t, f, report.SheetInventory)
	if got := strings.Join(inventory[1][:5], ","); got != "50,46,4,300,270" {
		t.Errorf("inventory = %s", got)
	}

	records := rows(t, f, report.SheetRecords)
	if len(records) != 5 || records[0][1] != "SIP Number" {
		t.Errorf("records = %v", records)
	}

	logs := rows(t, f, report.SheetLogs)
	if len(logs) != 3 || logs[1][1] != "sip" || logs[1][3] != "-1" {
		t.Errorf("logs = %v", logs)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	f := openWorkbook(t, model.DefaultSnapshot())

	weekly := rows(t, f, report.SheetWeekly)
	if len(weekly) != 2 {
		t.Fatalf("weekly rows = %d, want header and placeholder", len(weekly))
	}
	if weekly[1][0] != "—" || !strings.HasPrefix(weekly[1][5], "No SIPs") {
		t.Errorf("placeholder = %v", weekly[1])
	}
	for _, sheet := range []string{report.SheetRecords, report.SheetLogs} {
		rs := rows(t, f, sheet)
		if len(rs) != 1 || rs[0][0] != "ID" {
			t.Errorf("%s rows = %v, want header only", sheet, rs)
		}
	}
}
