package vault

import (
	"fmt"
	"strings"
)

// validateName rejects backup names that could escape the vault.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}
