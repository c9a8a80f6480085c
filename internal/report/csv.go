package report

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"inv-go/internal/model"
)

const timestampLayout = time.RFC3339Nano

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// quote always wraps v in double quotes, doubling any embedded quote.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// WriteCSV writes records and log entries as one table with the columns
// type,id,number,note,delta,message,createdAt. Records come first; note and
// message are always quoted.
func WriteCSV(w io.Writer, snap *model.Snapshot) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("type,id,number,note,delta,message,createdAt\n")
	for _, r := range snap.Records {
		bw.WriteString(strings.Join([]string{
			string(model.LogKindRecord), r.ID, r.Number, quote(r.Note), "", "", timestamp(r.CreatedAt),
		}, ","))
		bw.WriteByte('\n')
	}
	for _, l := range snap.Logs {
		bw.WriteString(strings.Join([]string{
			string(l.Kind), l.ID, "", "", strconv.Itoa(l.Delta), quote(l.Message), timestamp(l.CreatedAt),
		}, ","))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteRecordsCSV writes the records created in r's window with the columns
// id,number,note,createdAt. Fields are quoted only when needed.
func WriteRecordsCSV(w io.Writer, snap *model.Snapshot, r Range, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "number", "note", "createdAt"}); err != nil {
		return err
	}
	for _, rec := range RecordsIn(snap, r, now) {
		if err := cw.Write([]string{rec.ID, rec.Number, rec.Note, timestamp(rec.CreatedAt)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
