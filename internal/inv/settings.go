package inv

import "inv-go/internal/model"

// Settings returns the current settings.
func (s *Service) Settings() model.Settings { return s.snap.Settings }

// UpdateSettings replaces the settings wholesale. An empty password keeps the
// current one.
func (s *Service) UpdateSettings(next model.Settings) (model.Settings, error) {
	err := s.mutate(func(snap *model.Snapshot) error {
		if next.Password == "" {
			next.Password = snap.Settings.Password
		}
		if next.PrimaryColor == "" {
			next.PrimaryColor = snap.Settings.PrimaryColor
		}
		snap.Settings = next
		return nil
	})
	if err != nil {
		return model.Settings{}, err
	}
	if next.PasswordEnabled && next.Password == "" {
		s.logger.Warn("password protection enabled without a password")
	}
	s.logger.Info("settings saved", "dark", next.DarkEnabled, "password_enabled", next.PasswordEnabled)
	return s.snap.Settings, nil
}

// Locked reports whether the password gate is active.
func (s *Service) Locked() bool {
	return s.snap.Settings.PasswordEnabled && s.snap.Settings.Password != ""
}

// Authorize checks password against the gate. It always succeeds when the
// gate is inactive.
func (s *Service) Authorize(password string) error {
	if !s.Locked() {
		return nil
	}
	if password != s.snap.Settings.Password {
		s.logger.Warn("unlock failed")
		return ErrWrongPassword
	}
	return nil
}
