package services

import (
	"fmt"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService edits the config file through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the effective value of key.
func (s *SettingsService) Get(key string) (domain.SettingValue, error) {
	setting, ok := domain.LookupSetting(key)
	if !ok {
		return domain.SettingValue{}, fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
	return s.value(setting), nil
}

// Set parses raw for key and persists it.
func (s *SettingsService) Set(key, raw string) error {
	setting, ok := domain.LookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}

	value, err := setting.Parse(raw)
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes key from the file.
func (s *SettingsService) Unset(key string) error {
	if _, ok := domain.LookupSetting(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// List returns every known setting in display order.
func (s *SettingsService) List() []domain.SettingValue {
	settings := domain.Settings()
	values := make([]domain.SettingValue, len(settings))
	for i, setting := range settings {
		values[i] = s.value(setting)
	}
	return values
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// value reads setting from the store, normalising TOML number types.
func (s *SettingsService) value(setting domain.Setting) domain.SettingValue {
	v := domain.SettingValue{Setting: setting, Value: setting.Default}

	if _, ok := s.configStore.Get(setting.Key); !ok {
		return v
	}
	v.IsSet = true

	switch setting.Kind {
	case domain.SettingInt:
		v.Value = s.configStore.GetInt(setting.Key)
	case domain.SettingFloat:
		v.Value = s.configStore.GetFloat(setting.Key)
	case domain.SettingBool:
		v.Value = s.configStore.GetBool(setting.Key)
	default:
		v.Value = s.configStore.GetString(setting.Key)
	}
	return v
}
