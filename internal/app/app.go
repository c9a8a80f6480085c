package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"inv-go/internal/config"
	"inv-go/internal/encryption"
	"inv-go/internal/inv"
	"inv-go/internal/report"
	"inv-go/internal/store"
	"inv-go/internal/vault"
)

// Export formats accepted by InvApp.Export.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatWorkbook = "xlsx"
	FormatRecords  = "sips"
)

// InvApp is the application layer between the CLI and inv.Service.
// It constructs all dependencies from config, exposes high-level operations
// and releases the store and log file on Close.
type InvApp struct {
	cfg       *config.Config
	store     inv.Store
	encryptor inv.Encryptor
	vaults    map[string]inv.Vault
	service   *inv.Service
	confirm   *inv.Confirmations
	clock     inv.Clock
	op        *Operation
	logger    *slogAdapter
	logFile   *os.File
}

// NewInvApp creates a fully wired InvApp from the given config.
// operation identifies the CLI command being run (e.g. "CreateRecord", "Backup").
// When verbose is set, log lines are echoed to stderr.
// The caller must call Close when done.
func NewInvApp(cfg *config.Config, operation string, verbose bool) (*InvApp, error) {
	clock := inv.RealClock{}
	op := NewOperation(operation, clock.Now())

	l, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l}

	s, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		s.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	svc, err := inv.NewService(s, logger, clock, inv.UUIDGenerator{})
	if err != nil {
		s.Close()
		logFile.Close()
		return nil, err
	}

	logger.Debug("operation started", "operation", op.Name)
	return &InvApp{
		cfg:       cfg,
		store:     s,
		encryptor: enc,
		vaults:    make(map[string]inv.Vault),
		service:   svc,
		confirm:   inv.NewConfirmations(inv.UUIDGenerator{}),
		clock:     clock,
		op:        op,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// Service returns the inventory service.
func (a *InvApp) Service() *inv.Service { return a.service }

// Operation returns the operation this app was created for.
func (a *InvApp) Operation() *Operation { return a.op }

// Now returns the current time of the app's clock.
func (a *InvApp) Now() time.Time { return a.clock.Now() }

// Confirm runs action behind the confirmation protocol. ask is shown the
// prompt and decides whether the action is accepted.
func (a *InvApp) Confirm(message string, action func() error, ask func(prompt string) (bool, error)) error {
	token := a.confirm.Request(message, action)
	prompt, _ := a.confirm.Message(token)
	accepted, err := ask(prompt)
	if err != nil {
		// Abandon the request; the action never runs.
		a.confirm.Resolve(token, false)
		return err
	}
	return a.confirm.Resolve(token, accepted)
}

// Vault returns the configured vault with the given name, or the first
// configured vault when name is empty. Vaults are created once per app.
func (a *InvApp) Vault(name string) (inv.Vault, error) {
	vc, err := a.cfg.Vault(name)
	if err != nil {
		return nil, err
	}
	if v, ok := a.vaults[vc.Name]; ok {
		return v, nil
	}
	v, err := vault.NewVaultFromConfig(*vc)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	a.vaults[vc.Name] = v
	return v, nil
}

// SetupKeys generates the encryption key pair protected by passphrase.
func (a *InvApp) SetupKeys(passphrase string) error {
	if a.encryptor == nil {
		return fmt.Errorf("encryption is disabled in the configuration")
	}
	if a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys already exist")
	}
	return a.encryptor.Setup(passphrase)
}

// Backup exports the state into the named vault and returns the backup name.
func (a *InvApp) Backup(vaultName string) (string, error) {
	v, err := a.Vault(vaultName)
	if err != nil {
		return "", err
	}
	if a.encryptor != nil && !a.encryptor.IsConfigured() {
		return "", fmt.Errorf("encryption keys not found: run 'inv config keys' first")
	}
	return a.service.Backup(v, a.encryptor)
}

// ListBackups returns the backup names stored in the named vault.
func (a *InvApp) ListBackups(vaultName string) ([]string, error) {
	v, err := a.Vault(vaultName)
	if err != nil {
		return nil, err
	}
	return v.ListBackups()
}

// Restore imports the named backup from the named vault. passphrase is only
// called when the backup turns out to be encrypted.
func (a *InvApp) Restore(vaultName, name string, passphrase func() (string, error)) error {
	v, err := a.Vault(vaultName)
	if err != nil {
		return err
	}
	dec := &promptingDecryption{enc: a.encryptor, passphrase: passphrase}
	return a.service.Restore(v, dec, name)
}

// Export writes the state to w in the given format. r selects the records of
// the "sips" format and is ignored otherwise.
func (a *InvApp) Export(w io.Writer, format string, r report.Range) error {
	now := a.clock.Now()
	switch format {
	case FormatJSON:
		blob, err := a.service.ExportSnapshot()
		if err != nil {
			return err
		}
		_, err = w.Write(blob)
		return err
	case FormatCSV:
		return report.WriteCSV(w, a.service.Snapshot())
	case FormatWorkbook:
		return report.WriteWorkbook(w, a.service.Snapshot(), now)
	case FormatRecords:
		return report.WriteRecordsCSV(w, a.service.Snapshot(), r, now)
	default:
		return fmt.Errorf("%w: %q", inv.ErrUnsupportedFormat, format)
	}
}

// ExportName returns the default file name for an export in format.
func (a *InvApp) ExportName(format string, r report.Range) string {
	day := a.clock.Now().Format("2006-01-02")
	switch format {
	case FormatJSON:
		return inv.BackupName(a.clock.Now())
	case FormatCSV:
		return "router-inventory-" + day + ".csv"
	case FormatWorkbook:
		return "router-inventory-" + day + ".xlsx"
	case FormatRecords:
		return fmt.Sprintf("sips-%s-%s.csv", r, day)
	default:
		return "router-inventory-" + day + "." + format
	}
}

// Import replaces the state with the JSON snapshot read from r.
func (a *InvApp) Import(r io.Reader) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}
	return a.service.ImportSnapshot(blob)
}

// WriteConfig writes the app configuration as TOML with secrets masked.
func (a *InvApp) WriteConfig(w io.Writer) error {
	cfg := *a.cfg
	cfg.Vaults = append([]config.VaultConfig{}, a.cfg.Vaults...)
	for i := range cfg.Vaults {
		if cfg.Vaults[i].S3SecretAccessKey != "" {
			cfg.Vaults[i].S3SecretAccessKey = "********"
		}
	}
	m := &config.Manager{}
	return m.Write(w, &cfg)
}

// Close logs the operation outcome and closes the store and log file.
func (a *InvApp) Close() error {
	var firstErr error

	a.logger.Debug("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"elapsed", a.clock.Now().Sub(a.op.StartedAt).String())

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// promptingDecryption decrypts encrypted backups and passes plain ones
// through, asking for the passphrase only when it is needed.
type promptingDecryption struct {
	enc        inv.Encryptor
	passphrase func() (string, error)
}

var _ inv.DecryptionContext = (*promptingDecryption)(nil)

func (d *promptingDecryption) Decrypt(r io.Reader, w io.Writer) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !encryption.IsEncrypted(blob) {
		_, err := w.Write(blob)
		return err
	}
	if d.enc == nil {
		return fmt.Errorf("backup is encrypted but encryption is disabled in the configuration")
	}
	pass, err := d.passphrase()
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	dec, err := d.enc.Unlock(pass)
	if err != nil {
		return err
	}
	return dec.Decrypt(bytes.NewReader(blob), w)
}
