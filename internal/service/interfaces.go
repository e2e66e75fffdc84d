package service

import (
	"context"
	"encoding/json"

	"minuteshub/internal/analysis"
	"minuteshub/internal/mailer"
	"minuteshub/internal/model"
	"minuteshub/internal/transcribe"
)

type MeetingStore interface {
	Create(ctx context.Context, m *model.Meeting) (*model.Meeting, error)
	Update(ctx context.Context, m *model.Meeting) (*model.Meeting, error)
	GetByID(ctx context.Context, id int) (*model.Meeting, error)
	List(ctx context.Context) ([]model.Meeting, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type TemplateStore interface {
	Create(ctx context.Context, t *model.EmailTemplate) (*model.EmailTemplate, error)
	Update(ctx context.Context, t *model.EmailTemplate) (*model.EmailTemplate, error)
	GetByID(ctx context.Context, id int) (*model.EmailTemplate, error)
	GetByType(ctx context.Context, typ model.TemplateType) (*model.EmailTemplate, error)
	List(ctx context.Context) ([]model.EmailTemplate, error)
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

type PreferenceStore interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) error
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Delete(ctx context.Context, key string) (bool, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*transcribe.Result, error)
}

type Analyzer interface {
	GenerateTitle(ctx context.Context, transcript string) (string, error)
	Summarize(ctx context.Context, transcript, styleHint string) (string, error)
	ExtractActionItems(ctx context.Context, transcript string) ([]analysis.ActionItemDraft, error)
	SeparateSpeakers(ctx context.Context, transcript string) (string, error)
}

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type MailTransport interface {
	Verify(creds mailer.Credentials) error
	Send(creds mailer.Credentials, msg *mailer.Message) (string, error)
}
