package inv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"inv-go/internal/model"
)

// BackupInterval is how long a backup is considered fresh.
const BackupInterval = 7 * 24 * time.Hour

// BackupName returns the vault name of a backup taken at t.
func BackupName(t time.Time) string {
	return fmt.Sprintf("router-inventory-backup-%s.json", t.UTC().Format("2006-01-02"))
}

// ExportSnapshot serializes the whole snapshot. As a side effect the last
// backup time is set to now and persisted.
func (s *Service) ExportSnapshot() ([]byte, error) {
	var blob []byte
	err := s.exportWith(func(data []byte) error {
		blob = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// exportWith stamps the backup time, serializes the snapshot and hands it to
// sink. The new timestamp is persisted only if sink succeeds.
func (s *Service) exportWith(sink func(blob []byte) error) error {
	return s.mutate(func(snap *model.Snapshot) error {
		now := s.clock.Now()
		snap.Meta.LastBackupAt = &now
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		return sink(data)
	})
}

// ImportSnapshot replaces the entire state with blob. Fields missing from the
// blob are filled from the default snapshot.
func (s *Service) ImportSnapshot(blob []byte) error {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrUnsupportedFormat
	}

	var probe struct {
		Inventory json.RawMessage `json:"inventory"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(probe.Inventory) == 0 || string(probe.Inventory) == "null" {
		return fmt.Errorf("%w: missing inventory", ErrInvalidSnapshot)
	}

	var snap model.Snapshot
	if err := overDefaults(model.DefaultSnapshot(), trimmed, mergeShallow, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	normalize(&snap)

	if err := s.state.Save(&snap); err != nil {
		return fmt.Errorf("persisting state: %w", err)
	}
	s.snap = &snap
	s.logger.Info("snapshot imported", "records", len(snap.Records), "logs", len(snap.Logs))
	return nil
}

// BackupDue reports whether no backup was taken within BackupInterval.
func (s *Service) BackupDue() bool {
	last := s.snap.Meta.LastBackupAt
	return last == nil || s.clock.Now().Sub(*last) > BackupInterval
}

// Backup exports the snapshot into v, encrypted with enc when enc is non-nil,
// and returns the backup name.
func (s *Service) Backup(v Vault, enc Encryptor) (string, error) {
	name := BackupName(s.clock.Now())
	err := s.exportWith(func(blob []byte) error {
		payload := blob
		if enc != nil {
			var buf bytes.Buffer
			if err := enc.Encrypt(bytes.NewReader(blob), &buf); err != nil {
				return fmt.Errorf("encrypting backup: %w", err)
			}
			payload = buf.Bytes()
		}
		if err := v.PutBackup(name, bytes.NewReader(payload), int64(len(payload))); err != nil {
			return fmt.Errorf("uploading backup: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("backup stored", "name", name)
	return name, nil
}

// Restore fetches the named backup from v, decrypts it with dec when dec is
// non-nil and imports it.
func (s *Service) Restore(v Vault, dec DecryptionContext, name string) error {
	var buf bytes.Buffer
	if err := v.GetBackup(name, &buf); err != nil {
		return fmt.Errorf("fetching backup: %w", err)
	}

	blob := buf.Bytes()
	if dec != nil {
		var plain bytes.Buffer
		if err := dec.Decrypt(bytes.NewReader(blob), &plain); err != nil {
			return fmt.Errorf("decrypting backup: %w", err)
		}
		blob = plain.Bytes()
	}

	if err := s.ImportSnapshot(blob); err != nil {
		return err
	}
	s.logger.Info("backup restored", "name", name)
	return nil
}
