package inv_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"inv-go/internal/inv"
	"inv-go/internal/model"
	"inv-go/internal/store"
	"inv-go/internal/testutil"
)

func TestStateStore_Load(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want func(t *testing.T, snap *model.Snapshot)
	}{
		{
			name: "absent key yields defaults",
			want: func(t *testing.T, snap *model.Snapshot) {
				if snap.Inventory != (model.Counter{Capacity: 50, Stock: 50}) {
					t.Errorf("Inventory = %+v, want 50/50", snap.Inventory)
				}
				if snap.Settings.PrimaryColor != "#1e3a8a" {
					t.Errorf("PrimaryColor = %q", snap.Settings.PrimaryColor)
				}
			},
		},
		{
			name: "corrupt blob falls back to defaults",
			blob: "{not json",
			want: func(t *testing.T, snap *model.Snapshot) {
				if snap.Inventory != (model.Counter{Capacity: 50, Stock: 50}) {
					t.Errorf("Inventory = %+v, want defaults", snap.Inventory)
				}
			},
		},
		{
			name: "non-object blob falls back to defaults",
			blob: "[1,2,3]",
			want: func(t *testing.T, snap *model.Snapshot) {
				if len(snap.Records) != 0 || snap.Records == nil {
					t.Errorf("Records = %v, want empty", snap.Records)
				}
			},
		},
		{
			name: "legacy blob is backfilled key-wise",
			blob: `{"inventory":{"stock":7},"settings":{"darkEnabled":true}}`,
			want: func(t *testing.T, snap *model.Snapshot) {
				if snap.Inventory != (model.Counter{Capacity: 50, Stock: 7}) {
					t.Errorf("Inventory = %+v, want capacity from defaults", snap.Inventory)
				}
				if !snap.Settings.DarkEnabled || snap.Settings.PrimaryColor != "#1e3a8a" {
					t.Errorf("Settings = %+v, want merged", snap.Settings)
				}
				if snap.Cable != (model.Counter{}) {
					t.Errorf("Cable = %+v, want default", snap.Cable)
				}
			},
		},
		{
			name: "non-sequence records reset to empty",
			blob: `{"inventory":{"capacity":5,"stock":5},"sips":{"bogus":true},"logs":"x"}`,
			want: func(t *testing.T, snap *model.Snapshot) {
				if snap.Records == nil || len(snap.Records) != 0 {
					t.Errorf("Records = %v, want empty", snap.Records)
				}
				if snap.Logs == nil || len(snap.Logs) != 0 {
					t.Errorf("Logs = %v, want empty", snap.Logs)
				}
			},
		},
		{
			name: "out-of-range counters are clamped",
			blob: `{"inventory":{"capacity":10,"stock":99},"cable":{"capacity":-5,"stock":3}}`,
			want: func(t *testing.T, snap *model.Snapshot) {
				if snap.Inventory != (model.Counter{Capacity: 10, Stock: 10}) {
					t.Errorf("Inventory = %+v, want 10/10", snap.Inventory)
				}
				if snap.Cable != (model.Counter{Capacity: 0, Stock: 0}) {
					t.Errorf("Cable = %+v, want 0/0", snap.Cable)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			if tt.blob != "" {
				if err := s.Put(inv.StateKey, []byte(tt.blob)); err != nil {
					t.Fatal(err)
				}
			}

			snap, err := inv.NewStateStore(s, inv.NewNopLogger()).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.want(t, snap)
		})
	}
}

// warnLogger collects the messages and attributes of Warn calls.
type warnLogger struct {
	inv.NopLogger
	warns []string
}

func (l *warnLogger) Warn(msg string, args ...any) {
	l.warns = append(l.warns, fmt.Sprint(append([]any{msg}, args...)...))
}

func TestStateStore_Load_DropsOnlyUnreadableValues(t *testing.T) {
	blob := `{
		"inventory": {"capacity": 20, "stock": "many"},
		"settings": {"darkEnabled": "yes", "primaryColor": "#ffffff"},
		"meta": {"lastBackupAt": "last week"},
		"sips": [
			{"id": "a", "number": "111", "note": "", "createdAt": "2024-01-01T00:00:00Z"},
			{"id": "b", "number": "222", "note": "", "createdAt": "yesterday"},
			7
		],
		"logs": [
			{"id": "l1", "type": "sys", "message": "bad", "delta": "x", "createdAt": "2024-01-01T00:00:00Z"},
			{"id": "l2", "type": "inv", "message": "ok", "delta": 1, "createdAt": "2024-01-01T00:00:00Z"}
		]
	}`
	s := store.NewMemoryStore()
	if err := s.Put(inv.StateKey, []byte(blob)); err != nil {
		t.Fatal(err)
	}
	logger := &warnLogger{}

	snap, err := inv.NewStateStore(s, logger).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if snap.Inventory != (model.Counter{Capacity: 20, Stock: 20}) {
		t.Errorf("Inventory = %+v, want capacity kept and stock clamped from default", snap.Inventory)
	}
	if snap.Settings.DarkEnabled || snap.Settings.PrimaryColor != "#ffffff" {
		t.Errorf("Settings = %+v, want color kept and dark mode default", snap.Settings)
	}
	if snap.Meta.LastBackupAt != nil {
		t.Errorf("LastBackupAt = %v, want nil", snap.Meta.LastBackupAt)
	}
	if len(snap.Records) != 1 || snap.Records[0].ID != "a" {
		t.Errorf("Records = %+v, want only record a", snap.Records)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].ID != "l2" {
		t.Errorf("Logs = %+v, want only entry l2", snap.Logs)
	}

	want := []string{"inventory.stock", "logs[0]", "meta.lastBackupAt", "settings.darkEnabled", "sips[1]", "sips[2]"}
	if len(logger.warns) != len(want) {
		t.Fatalf("warnings = %q, want one per dropped value %v", logger.warns, want)
	}
	for i, path := range want {
		if !strings.Contains(logger.warns[i], path) {
			t.Errorf("warning %d = %q, want path %s", i, logger.warns[i], path)
		}
	}
}

func TestStateStore_SaveLayout(t *testing.T) {
	s := store.NewMemoryStore()
	st := inv.NewStateStore(s, inv.NewNopLogger())
	if err := st.Save(model.DefaultSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, _ := s.Get(inv.StateKey)
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"inventory", "cable", "sips", "logs", "settings", "meta"} {
		if _, ok := top[key]; !ok {
			t.Errorf("persisted layout is missing %q", key)
		}
	}

	if err := st.Reset(); err != nil {
		t.Fatal(err)
	}
	if raw, _ := s.Get(inv.StateKey); raw != nil {
		t.Error("Reset() left the stored snapshot behind")
	}
}

func TestService_PersistsAcrossInstances(t *testing.T) {
	s := testutil.NewTestStore(t)

	svc, _ := testutil.NewTestServiceWithStore(t, s)
	if _, err := svc.CreateRecord("9999", "note", nil); err != nil {
		t.Fatal(err)
	}

	reopened, _ := testutil.NewTestServiceWithStore(t, s)
	if reopened.Inventory().Stock != 49 {
		t.Errorf("stock = %d, want 49", reopened.Inventory().Stock)
	}
	recs := reopened.Snapshot().Records
	if len(recs) != 1 || recs[0].Number != "9999" {
		t.Errorf("records = %+v, want the created record", recs)
	}
}

func TestService_FailedSaveLeavesStateUnchanged(t *testing.T) {
	fs := &testutil.FailingStore{Store: store.NewMemoryStore()}
	svc, _ := testutil.NewTestServiceWithStore(t, fs)

	fs.Fail = true
	if _, err := svc.CreateRecord("4242", "", nil); err == nil {
		t.Fatal("CreateRecord() expected error when the store fails")
	}
	if svc.Inventory().Stock != 50 || len(svc.Snapshot().Records) != 0 || len(svc.Snapshot().Logs) != 0 {
		t.Error("failed save changed the in-memory snapshot")
	}
}

func TestService_Reset(t *testing.T) {
	svc, _ := testutil.NewTestService(t)
	if _, err := svc.CreateRecord("123", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	snap := svc.Snapshot()
	if len(snap.Records) != 0 || len(snap.Logs) != 0 || snap.Inventory.Stock != 50 {
		t.Errorf("snapshot after Reset() = %+v, want defaults", snap)
	}
}
