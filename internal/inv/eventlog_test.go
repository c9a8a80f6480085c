package inv_test

import (
	"errors"
	"testing"
	"time"

	"inv-go/internal/inv"
	"inv-go/internal/model"
	"inv-go/internal/testutil"
)

// seedLogs produces, oldest to newest: sys, sip, inv, sys, sip, inv.
func seedLogs(t *testing.T) *inv.Service {
	t.Helper()
	svc, clock := testutil.NewTestService(t)

	steps := []func() error{
		func() error { _, err := svc.SetInventory(20, 20); return err },
		func() error { _, err := svc.CreateRecord("100", "", nil); return err },
		func() error { _, err := svc.SetCable(50, 50); return err },
		func() error { _, err := svc.CreateRecord("200", "", nil); return err },
	}
	for _, step := range steps {
		clock.Advance(time.Minute)
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	return svc
}

func TestService_DeleteRecentLogs(t *testing.T) {
	t.Run("skips record entries", func(t *testing.T) {
		svc := seedLogs(t)
		// sys, sip, inv, sys, sip, inv
		removed, err := svc.DeleteRecentLogs(2)
		if err != nil {
			t.Fatalf("DeleteRecentLogs() error = %v", err)
		}
		if removed != 2 {
			t.Errorf("removed = %d, want 2", removed)
		}

		kinds := []model.LogKind{}
		for _, l := range svc.Snapshot().Logs {
			kinds = append(kinds, l.Kind)
		}
		want := []model.LogKind{model.LogKindSystem, model.LogKindRecord, model.LogKindCounter, model.LogKindRecord}
		if len(kinds) != len(want) {
			t.Fatalf("remaining kinds = %v, want %v", kinds, want)
		}
		for i := range want {
			if kinds[i] != want[i] {
				t.Fatalf("remaining kinds = %v, want %v", kinds, want)
			}
		}
	})

	t.Run("never removes record entries or more than asked", func(t *testing.T) {
		for count := 1; count <= 8; count++ {
			svc := seedLogs(t)
			before := countKinds(svc.Snapshot().Logs)
			total := len(svc.Snapshot().Logs)

			removed, err := svc.DeleteRecentLogs(count)
			if err != nil {
				t.Fatalf("DeleteRecentLogs(%d) error = %v", count, err)
			}
			after := countKinds(svc.Snapshot().Logs)
			if after[model.LogKindRecord] != before[model.LogKindRecord] {
				t.Errorf("DeleteRecentLogs(%d) removed record entries", count)
			}
			if removed > count || total-len(svc.Snapshot().Logs) != removed {
				t.Errorf("DeleteRecentLogs(%d) removed = %d, log shrank by %d", count, removed, total-len(svc.Snapshot().Logs))
			}
		}
	})

	t.Run("reports fewer than requested", func(t *testing.T) {
		svc := seedLogs(t)
		removed, err := svc.DeleteRecentLogs(100)
		if err != nil {
			t.Fatal(err)
		}
		if removed != 4 {
			t.Errorf("removed = %d, want the 4 non-record entries", removed)
		}
	})

	t.Run("nothing to delete", func(t *testing.T) {
		svc := seedLogs(t)
		for _, count := range []int{0, -3} {
			if _, err := svc.DeleteRecentLogs(count); !errors.Is(err, inv.ErrNothingToDelete) {
				t.Errorf("DeleteRecentLogs(%d) error = %v, want ErrNothingToDelete", count, err)
			}
		}

		if _, err := svc.DeleteRecentLogs(100); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.DeleteRecentLogs(1); !errors.Is(err, inv.ErrNothingToDelete) {
			t.Errorf("DeleteRecentLogs() with only record entries error = %v, want ErrNothingToDelete", err)
		}
	})
}

func TestService_DeletableLogs(t *testing.T) {
	svc := seedLogs(t)
	tests := []struct{ count, want int }{{0, 0}, {3, 3}, {4, 4}, {10, 4}}
	for _, tt := range tests {
		if got := svc.DeletableLogs(tt.count); got != tt.want {
			t.Errorf("DeletableLogs(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestService_QueryLogs(t *testing.T) {
	svc := seedLogs(t)

	t.Run("newest first", func(t *testing.T) {
		got := svc.QueryLogs(inv.LogFilter{})
		if len(got) != 6 {
			t.Fatalf("len = %d, want 6", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].CreatedAt.After(got[i-1].CreatedAt) {
				t.Fatalf("entry %d is newer than entry %d", i, i-1)
			}
		}
		// entries appended in one operation share a timestamp; the later one comes first
		if got[0].Kind != model.LogKindCounter || got[1].Kind != model.LogKindRecord {
			t.Errorf("first kinds = %s, %s, want counter then record", got[0].Kind, got[1].Kind)
		}
	})

	t.Run("text filter", func(t *testing.T) {
		got := svc.QueryLogs(inv.LogFilter{Text: "SIP added 200"})
		if len(got) != 1 {
			t.Errorf("len = %d, want 1", len(got))
		}
	})

	t.Run("exclude records", func(t *testing.T) {
		for _, l := range svc.QueryLogs(inv.LogFilter{ExcludeRecords: true}) {
			if l.Kind == model.LogKindRecord {
				t.Fatal("record entry returned with ExcludeRecords")
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		if got := svc.QueryLogs(inv.LogFilter{Limit: 2}); len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("date range", func(t *testing.T) {
		day := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
		if got := svc.QueryLogs(inv.LogFilter{To: &day}); len(got) != 0 {
			t.Errorf("len = %d, want 0 before the seeded day", len(got))
		}
	})
}

func TestService_QueryLogs_Cap(t *testing.T) {
	svc, _ := testutil.NewTestService(t)
	for i := 0; i < 220; i++ {
		if _, err := svc.AdjustStock(-1, ""); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.AdjustStock(1, ""); err != nil {
			t.Fatal(err)
		}
	}
	if got := svc.QueryLogs(inv.LogFilter{}); len(got) != inv.MaxLogResults {
		t.Errorf("len = %d, want %d", len(got), inv.MaxLogResults)
	}
	if got := svc.QueryLogs(inv.LogFilter{Limit: 1000}); len(got) != inv.MaxLogResults {
		t.Errorf("len with oversized limit = %d, want %d", len(got), inv.MaxLogResults)
	}
}
