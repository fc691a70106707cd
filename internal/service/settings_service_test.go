package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

type memSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{values: make(map[string]string)}
}

func (m *memSettings) Upsert(_ context.Context, setting domain.SystemSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[setting.Key] = setting.Value
	return nil
}

func (m *memSettings) List(_ context.Context) ([]domain.SystemSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SystemSetting
	for k, v := range m.values {
		out = append(out, domain.SystemSetting{Key: k, Value: v})
	}
	return out, nil
}

func TestSettingsUpdateSkipsUnknownKeys(t *testing.T) {
	svc := NewSettingsService(newMemSettings())

	values, err := svc.Update(context.Background(), map[string]string{
		"COMPANY_NAME": "ACME GmbH",
		"WELCOME_TEXT": "Speak up safely.",
		"EVIL_KEY":     "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "ACME GmbH", values["COMPANY_NAME"])
	assert.Equal(t, "Speak up safely.", values["WELCOME_TEXT"])
	assert.NotContains(t, values, "EVIL_KEY")
}

func TestSettingsUpdateOverwrites(t *testing.T) {
	svc := NewSettingsService(newMemSettings())

	_, err := svc.Update(context.Background(), map[string]string{"COMPANY_NAME": "Old"})
	require.NoError(t, err)
	values, err := svc.Update(context.Background(), map[string]string{"COMPANY_NAME": "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", values["COMPANY_NAME"])
}
