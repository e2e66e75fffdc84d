package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
	"minuteshub/internal/template"
)

type TemplateService struct {
	store    TemplateStore
	meetings MeetingStore
	logger   *zap.Logger
}

func NewTemplateService(store TemplateStore, meetings MeetingStore, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		store:    store,
		meetings: meetings,
		logger:   logger,
	}
}

// Seed inserts the built-in templates the first time the table is observed
// empty. Idempotent across restarts.
func (s *TemplateService) Seed(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, tpl := range template.Defaults() {
		t := tpl
		if _, err := s.store.Create(ctx, &t); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default email templates")
	return nil
}

type TemplateInput struct {
	Name    string             `json:"name"`
	Type    model.TemplateType `json:"type"`
	Subject string             `json:"subject"`
	Body    string             `json:"body"`
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*model.EmailTemplate, error) {
	if err := validateTemplate(in); err != nil {
		return nil, err
	}

	t := &model.EmailTemplate{
		Name:    in.Name,
		Type:    in.Type,
		Subject: in.Subject,
		Body:    in.Body,
		// derived, never hand-maintained
		Variables: template.ExtractVariables(in.Subject, in.Body),
	}
	return s.store.Create(ctx, t)
}

func (s *TemplateService) Update(ctx context.Context, id int, in TemplateInput) (*model.EmailTemplate, error) {
	if err := validateTemplate(in); err != nil {
		return nil, err
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Name = in.Name
	t.Type = in.Type
	t.Subject = in.Subject
	t.Body = in.Body
	t.Variables = template.ExtractVariables(in.Subject, in.Body)

	return s.store.Update(ctx, t)
}

func (s *TemplateService) Get(ctx context.Context, id int) (*model.EmailTemplate, error) {
	return s.store.GetByID(ctx, id)
}

func (s *TemplateService) GetByType(ctx context.Context, typ model.TemplateType) (*model.EmailTemplate, error) {
	return s.store.GetByType(ctx, typ)
}

func (s *TemplateService) List(ctx context.Context) ([]model.EmailTemplate, error) {
	return s.store.List(ctx)
}

func (s *TemplateService) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.Delete(ctx, id)
}

// Render merges the template with the meeting's fields into final subject
// and body strings.
func (s *TemplateService) Render(ctx context.Context, templateID, meetingID int) (subject, body string, err error) {
	tpl, err := s.store.GetByID(ctx, templateID)
	if err != nil {
		return "", "", err
	}
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return "", "", err
	}

	subject, body = template.Render(tpl, m)
	return subject, body, nil
}

func validateTemplate(in TemplateInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name must not be empty"
	}
	if !in.Type.Valid() {
		fields["type"] = "type must be one of summary, action_items, full_report"
	}
	if strings.TrimSpace(in.Subject) == "" {
		fields["subject"] = "subject must not be empty"
	}
	if strings.TrimSpace(in.Body) == "" {
		fields["body"] = "body must not be empty"
	}
	if len(fields) > 0 {
		return fault.Validation("invalid template", fields)
	}
	return nil
}
