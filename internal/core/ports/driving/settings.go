package driving

import "github.com/custodia-labs/famlink/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get resolves the current settings, filling unset keys with defaults.
	// A malformed value fails with domain.ErrInvalidInput.
	Get() (*domain.Settings, error)
}
