package inv

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"inv-go/internal/model"
)

// MaxRecordResults caps QueryRecords.
const MaxRecordResults = 200

var (
	numberPattern = regexp.MustCompile(`^[0-9]{3,15}$`)
	quantityRun   = regexp.MustCompile(`[0-9]+`)
)

// NormalizeNumber folds numeral glyphs to ASCII and trims surrounding space.
func NormalizeNumber(raw string) string {
	return strings.TrimSpace(NormalizeDigits(raw))
}

// ValidNumber reports whether n is 3 to 15 ASCII digits.
func ValidNumber(n string) bool {
	return numberPattern.MatchString(n)
}

// NoteQuantity extracts the first run of digits in note as a cable length in
// meters. ok is false when the note holds no positive integer. Runs too long
// for an int saturate at math.MaxInt.
func NoteQuantity(note string) (meters int, ok bool) {
	run := quantityRun.FindString(NormalizeDigits(note))
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(run)
	if errors.Is(err, strconv.ErrRange) {
		n, err = math.MaxInt, nil
	}
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func describe(number, note string) string {
	if note == "" {
		return number
	}
	return number + " - " + note
}

// CreateRecord allocates a new record. It consumes one router and, if the note
// carries a cable length, deducts it from the cable counter (floored at 0).
// createdAt may backdate the record; nil means now.
func (s *Service) CreateRecord(number, note string, createdAt *time.Time) (*model.Record, error) {
	number = NormalizeNumber(number)
	note = strings.TrimSpace(note)

	var rec model.Record
	err := s.mutate(func(snap *model.Snapshot) error {
		if !ValidNumber(number) {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, number)
		}
		if snap.HasNumber(number, "") {
			return fmt.Errorf("%w: %s", ErrDuplicateNumber, number)
		}
		if snap.Inventory.Stock <= 0 {
			return ErrOutOfStock
		}

		rec = model.Record{ID: s.idgen.New(), Number: number, Note: note, CreatedAt: s.clock.Now()}
		if createdAt != nil {
			rec.CreatedAt = *createdAt
		}
		snap.Records = append(snap.Records, rec)
		s.appendLog(snap, model.LogKindRecord, "SIP added "+describe(number, note), 0)
		s.consumeOne(snap)

		if meters, ok := NoteQuantity(note); ok {
			applied := adjustCounter(&snap.Cable, -meters)
			s.appendLog(snap, model.LogKindCounter, fmt.Sprintf("%dm of cable consumed by SIP", meters), applied)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("record rejected", "number", number, "error", err)
		return nil, err
	}
	s.logger.Info("record created", "id", rec.ID, "number", rec.Number)
	return &rec, nil
}

// UpdateRecord changes the number and note of an existing record. The id and
// creation time never change. An edit that changes nothing is still logged.
func (s *Service) UpdateRecord(id, number, note string) (*model.Record, error) {
	number = NormalizeNumber(number)
	note = strings.TrimSpace(note)

	var rec model.Record
	err := s.mutate(func(snap *model.Snapshot) error {
		i := snap.FindRecord(id)
		if i < 0 {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		if !ValidNumber(number) {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, number)
		}
		if snap.HasNumber(number, id) {
			return fmt.Errorf("%w: %s", ErrDuplicateNumber, number)
		}

		r := &snap.Records[i]
		var changes []string
		if r.Number != number {
			changes = append(changes, fmt.Sprintf("number: %s → %s", r.Number, number))
		}
		if r.Note != note {
			changes = append(changes, "note updated")
		}
		r.Number = number
		r.Note = note
		rec = *r

		if len(changes) == 0 {
			s.appendLog(snap, model.LogKindRecord, "SIP "+number+" updated without changes", 0)
		} else {
			s.appendLog(snap, model.LogKindRecord, fmt.Sprintf("SIP updated (%s)", strings.Join(changes, ", ")), 0)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("record update rejected", "id", id, "error", err)
		return nil, err
	}
	s.logger.Info("record updated", "id", rec.ID, "number", rec.Number)
	return &rec, nil
}

// DeleteRecord removes a record and returns it. One router goes back to stock
// unless stock is already at capacity, and a cable length in the note is
// restored up to the cable capacity.
func (s *Service) DeleteRecord(id string) (*model.Record, error) {
	var removed model.Record
	err := s.mutate(func(snap *model.Snapshot) error {
		i := snap.FindRecord(id)
		if i < 0 {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		removed = snap.Records[i]
		snap.Records = append(snap.Records[:i], snap.Records[i+1:]...)
		s.appendLog(snap, model.LogKindRecord, "SIP deleted "+describe(removed.Number, removed.Note), 0)

		if snap.Inventory.Stock < snap.Inventory.Capacity {
			snap.Inventory.Stock++
			s.appendLog(snap, model.LogKindCounter, "1 router returned after SIP deletion", 1)
		}

		if meters, ok := NoteQuantity(removed.Note); ok {
			if applied := adjustCounter(&snap.Cable, meters); applied != 0 {
				s.appendLog(snap, model.LogKindCounter, fmt.Sprintf("%dm of cable returned after SIP deletion", applied), applied)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("record delete rejected", "id", id, "error", err)
		return nil, err
	}
	s.logger.Info("record deleted", "id", removed.ID, "number", removed.Number)
	return &removed, nil
}

// FindRecord returns the record with the given id.
func (s *Service) FindRecord(id string) (*model.Record, error) {
	i := s.snap.FindRecord(id)
	if i < 0 {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	rec := s.snap.Records[i]
	return &rec, nil
}

// RecordFilter selects records. Zero fields do not filter. From and To are
// calendar days: To includes its whole day.
type RecordFilter struct {
	Number string
	Note   string
	From   *time.Time
	To     *time.Time
}

// QueryRecords returns matching records, newest first, at most MaxRecordResults.
func (s *Service) QueryRecords(f RecordFilter) []model.Record {
	number := DigitsOnly(f.Number)
	note := strings.TrimSpace(f.Note)

	out := make([]model.Record, 0, len(s.snap.Records))
	for i := len(s.snap.Records) - 1; i >= 0; i-- {
		r := s.snap.Records[i]
		if number != "" && !strings.Contains(r.Number, number) {
			continue
		}
		if note != "" && !strings.Contains(r.Note, note) {
			continue
		}
		if !inDayRange(r.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > MaxRecordResults {
		out = out[:MaxRecordResults]
	}
	return out
}

// StartOfDay returns midnight at the start of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func inDayRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(StartOfDay(*from)) {
		return false
	}
	if to != nil && t.After(EndOfDay(*to)) {
		return false
	}
	return true
}
