package service

import (
	"context"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// SettingsService reads and updates portal presentation settings.
type SettingsService struct {
	settings repository.SettingRepository
}

// NewSettingsService builds the service.
func NewSettingsService(settings repository.SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// List returns all settings as a key/value map. The read side is public.
func (s *SettingsService) List(ctx context.Context) (map[string]string, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// Update upserts allow-listed keys and skips unknown ones silently, then
// returns the resulting state.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) (map[string]string, error) {
	allowed := make(map[string]struct{})
	for _, key := range domain.SettingKeys() {
		allowed[key] = struct{}{}
	}

	for key, value := range values {
		if _, ok := allowed[key]; !ok {
			continue
		}
		if err := s.settings.Upsert(ctx, domain.SystemSetting{Key: key, Value: value}); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return s.List(ctx)
}
