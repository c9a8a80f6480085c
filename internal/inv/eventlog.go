package inv

import (
	"sort"
	"strings"
	"time"

	"inv-go/internal/model"
)

// MaxLogResults caps QueryLogs.
const MaxLogResults = 400

// LogFilter selects log entries. Zero fields do not filter.
type LogFilter struct {
	Text           string
	From           *time.Time
	To             *time.Time
	ExcludeRecords bool // hide record-kind entries
	Limit          int  // 0 or anything above MaxLogResults means MaxLogResults
}

// QueryLogs returns matching log entries, newest first.
func (s *Service) QueryLogs(f LogFilter) []model.LogEntry {
	limit := f.Limit
	if limit <= 0 || limit > MaxLogResults {
		limit = MaxLogResults
	}

	out := make([]model.LogEntry, 0, min(limit, len(s.snap.Logs)))
	for i := len(s.snap.Logs) - 1; i >= 0; i-- {
		l := s.snap.Logs[i]
		if f.ExcludeRecords && l.Kind == model.LogKindRecord {
			continue
		}
		if f.Text != "" && !strings.Contains(l.Message, f.Text) {
			continue
		}
		if !inDayRange(l.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DeletableLogs returns how many of the count most recent non-record entries
// DeleteRecentLogs would remove.
func (s *Service) DeletableLogs(count int) int {
	if count <= 0 {
		return 0
	}
	available := 0
	for _, l := range s.snap.Logs {
		if l.Kind != model.LogKindRecord {
			available++
		}
	}
	return min(count, available)
}

// DeleteRecentLogs removes up to count of the newest entries that are not
// record events, scanning from the newest end and skipping record entries in
// place. It returns the number actually removed.
func (s *Service) DeleteRecentLogs(count int) (int, error) {
	if s.DeletableLogs(count) == 0 {
		return 0, ErrNothingToDelete
	}

	removed := 0
	err := s.mutate(func(snap *model.Snapshot) error {
		kept := make([]model.LogEntry, 0, len(snap.Logs))
		for i := len(snap.Logs) - 1; i >= 0; i-- {
			l := snap.Logs[i]
			if removed < count && l.Kind != model.LogKindRecord {
				removed++
				continue
			}
			kept = append(kept, l)
		}
		// kept was built newest first
		for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
			kept[i], kept[j] = kept[j], kept[i]
		}
		snap.Logs = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("log entries deleted", "requested", count, "removed", removed)
	return removed, nil
}
