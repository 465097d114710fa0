package driving

import "github.com/custodia-labs/kbase/internal/core/domain"

// SettingsService reads and edits the configuration file.
// Only known keys are accepted and values are checked against their kind.
type SettingsService interface {
	// Get returns the effective value of key.
	Get(key string) (domain.SettingValue, error)

	// Set parses raw for key and persists it.
	Set(key, raw string) error

	// Unset removes key from the file, restoring the default.
	Unset(key string) error

	// List returns every known setting with its effective value.
	List() []domain.SettingValue

	// Path returns the configuration file path.
	Path() string
}
