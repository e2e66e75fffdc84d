package service

import (
	"context"
	"encoding/json"
	"strings"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
)

// PreferenceService validates known preference shapes on write and offers
// typed reads with sensible absence defaults.
type PreferenceService struct {
	store PreferenceStore
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

func (s *PreferenceService) All(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.store.All(ctx)
}

// Set stores raw JSON under key after checking it against the key's expected
// shape. Unknown keys are accepted as opaque values.
func (s *PreferenceService) Set(ctx context.Context, key string, raw json.RawMessage) error {
	if strings.TrimSpace(key) == "" {
		return fault.Validation("invalid preference", map[string]string{"key": "key must not be empty"})
	}

	switch key {
	case model.PrefDefaultRecipients:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fault.Validation("invalid preference", map[string]string{key: "expected a list of email addresses"})
		}
	case model.PrefAutoSendSummary:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fault.Validation("invalid preference", map[string]string{key: "expected a boolean"})
		}
	case model.PrefPreferredTemplate:
		var v model.TemplateType
		if err := json.Unmarshal(raw, &v); err != nil || !v.Valid() {
			return fault.Validation("invalid preference", map[string]string{key: "expected one of summary, action_items, full_report"})
		}
	case model.PrefGmailConfig:
		var v model.GmailConfig
		if err := json.Unmarshal(raw, &v); err != nil || v.Email == "" {
			return fault.Validation("invalid preference", map[string]string{key: "expected {email, password}"})
		}
	}

	return s.store.Set(ctx, key, raw)
}

func (s *PreferenceService) Delete(ctx context.Context, key string) (bool, error) {
	return s.store.Delete(ctx, key)
}

// AutoSendSummary reports the auto-send flag; absent means false.
func (s *PreferenceService) AutoSendSummary(ctx context.Context) (bool, error) {
	var v bool
	err := s.store.Get(ctx, model.PrefAutoSendSummary, &v)
	if fault.IsNotFound(err) {
		return false, nil
	}
	return v, err
}

// DefaultRecipients returns the configured recipient list; absent means none.
func (s *PreferenceService) DefaultRecipients(ctx context.Context) ([]string, error) {
	var v []string
	err := s.store.Get(ctx, model.PrefDefaultRecipients, &v)
	if fault.IsNotFound(err) {
		return nil, nil
	}
	return v, err
}

// PreferredTemplate returns the chosen template type, defaulting to summary.
func (s *PreferenceService) PreferredTemplate(ctx context.Context) (model.TemplateType, error) {
	var v model.TemplateType
	err := s.store.Get(ctx, model.PrefPreferredTemplate, &v)
	if fault.IsNotFound(err) {
		return model.TemplateSummary, nil
	}
	if err != nil {
		return "", err
	}
	if !v.Valid() {
		return model.TemplateSummary, nil
	}
	return v, nil
}
