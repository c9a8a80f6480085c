package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"inv-go/internal/model"
)

// Sheet names, in workbook order.
const (
	SheetWeekly    = "Weekly"
	SheetSummary   = "Summary"
	SheetInventory = "Inventory"
	SheetRecords   = "SIPs"
	SheetLogs      = "Logs"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	noWeeklyRecord = "No SIPs in the last 7 days"
)

var (
	weeklyHeader = []any{"Day", "Date", "Time", "Month", "SIP Number", "Cable Meters"}
	recordHeader = []any{"ID", "SIP Number", "Cable Meters", "Created At"}
	logHeader    = []any{"ID", "Type", "Message", "Delta", "Created At"}
	invHeader    = []any{"Router Capacity", "Router Stock", "Routers Used", "Cable Capacity (m)", "Cable Stock (m)", "Exported At"}
)

// WriteWorkbook renders snap as an XLSX workbook with the weekly, summary,
// inventory, record and log sheets. Times are shown in now's location.
func WriteWorkbook(w io.Writer, snap *model.Snapshot, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	sb := &sheetBuilder{f: f, bold: bold}

	loc := now.Location()
	local := func(t time.Time) string { return t.In(loc).Format(dateTimeLayout) }

	// Weekly
	sb.sheet(SheetWeekly, weeklyHeader)
	weekly := WeeklyRecords(snap, now)
	for _, rec := range weekly {
		t := rec.CreatedAt.In(loc)
		sb.row(t.Weekday().String(), t.Format("02/01/2006"), t.Format("15:04:05"), t.Month().String(), rec.Number, rec.Note)
	}
	if len(weekly) == 0 {
		sb.row("—", "—", "—", "—", "—", noWeeklyRecord)
	}

	// Summary
	s := Summarize(snap, now)
	sb.sheet(SheetSummary, nil)
	sb.row("Exported At", local(s.ExportedAt))
	sb.row("Capacity", s.Capacity)
	sb.row("Current Stock", s.Stock)
	sb.row("Used (Capacity - Stock)", s.Used)
	sb.row("Total SIPs", s.Total)
	sb.row("SIPs Today", s.Today)
	sb.row("SIPs This Week", s.Week)
	sb.row("SIPs This Month", s.Month)
	sb.row()
	sb.row("Last 7 Days")
	sb.header("Day", "SIPs")
	for _, d := range s.Days {
		sb.row(d.Day.Format("Mon 02/01"), d.Count)
	}

	// Inventory
	sb.sheet(SheetInventory, invHeader)
	sb.row(snap.Inventory.Capacity, snap.Inventory.Stock, snap.Inventory.Used(),
		snap.Cable.Capacity, snap.Cable.Stock, local(now))

	// SIPs
	sb.sheet(SheetRecords, recordHeader)
	for _, rec := range snap.Records {
		sb.row(rec.ID, rec.Number, rec.Note, local(rec.CreatedAt))
	}

	// Logs
	sb.sheet(SheetLogs, logHeader)
	for _, l := range snap.Logs {
		sb.row(l.ID, string(l.Kind), l.Message, l.Delta, local(l.CreatedAt))
	}

	if sb.err != nil {
		return fmt.Errorf("building workbook: %w", sb.err)
	}
	if idx, err := f.GetSheetIndex(SheetWeekly); err == nil {
		f.SetActiveSheet(idx)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// sheetBuilder appends rows to the current sheet and keeps the first error.
type sheetBuilder struct {
	f     *excelize.File
	bold  int
	name  string
	next  int
	first bool
	err   error
}

// sheet starts a new sheet, reusing the default sheet for the first one, and
// writes header when non-nil.
func (b *sheetBuilder) sheet(name string, header []any) {
	if b.err != nil {
		return
	}
	if !b.first {
		b.first = true
		b.err = b.f.SetSheetName("Sheet1", name)
	} else {
		_, b.err = b.f.NewSheet(name)
	}
	b.name, b.next = name, 1
	if header != nil {
		b.header(header...)
		if b.err == nil {
			b.err = b.f.SetColWidth(name, "A", columnName(len(header)), 18)
		}
	}
}

func (b *sheetBuilder) header(cells ...any) {
	row := b.next
	b.row(cells...)
	if b.err == nil {
		b.err = b.f.SetRowStyle(b.name, row, row, b.bold)
	}
}

func (b *sheetBuilder) row(cells ...any) {
	if b.err != nil {
		return
	}
	if len(cells) > 0 {
		cell, err := excelize.CoordinatesToCellName(1, b.next)
		if err != nil {
			b.err = err
			return
		}
		b.err = b.f.SetSheetRow(b.name, cell, &cells)
	}
	b.next++
}

func columnName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}
