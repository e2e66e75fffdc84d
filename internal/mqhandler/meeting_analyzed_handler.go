package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"minuteshub/internal/mailer"
	"minuteshub/internal/mq"
	"minuteshub/internal/service"
	"minuteshub/internal/template"
	"minuteshub/internal/util"
)

// AutoSendHandler consumes meeting.analyzed events and, when the
// auto_send_summary preference is enabled, renders the preferred template and
// sends the report to the default recipients. One attempt per meeting: send
// failures are logged and acked, never requeued.
type AutoSendHandler struct {
	meetings  service.MeetingStore
	templates *service.TemplateService
	prefs     *service.PreferenceService
	emails    *service.EmailService
	deduper   *util.Deduper
	logger    *zap.Logger
}

func NewAutoSendHandler(
	meetings service.MeetingStore,
	templates *service.TemplateService,
	prefs *service.PreferenceService,
	emails *service.EmailService,
	deduper *util.Deduper,
	logger *zap.Logger,
) *AutoSendHandler {
	return &AutoSendHandler{
		meetings:  meetings,
		templates: templates,
		prefs:     prefs,
		emails:    emails,
		deduper:   deduper,
		logger:    logger,
	}
}

func (h *AutoSendHandler) HandleMeetingAnalyzed(ctx context.Context, raw json.RawMessage) error {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in HandleMeetingAnalyzed",
				zap.Any("panic", r),
			)
		}
	}()

	var p mq.MeetingAnalyzedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// decode errors are non-retryable, ack the message
		h.logger.Error("Failed to unmarshal meeting analyzed payload (non-retryable)",
			zap.Error(err),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "autosend", p.MeetingID) {
		h.logger.Info("Duplicate meeting.analyzed event skipped",
			zap.Int("meeting_id", p.MeetingID),
		)
		return nil
	}

	autoSend, err := h.prefs.AutoSendSummary(ctx)
	if err != nil {
		h.logger.Error("Failed to read auto_send_summary preference",
			zap.Int("meeting_id", p.MeetingID),
			zap.Error(err),
		)
		return err
	}
	if !autoSend {
		return nil
	}

	recipients, err := h.prefs.DefaultRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		h.logger.Info("auto-send enabled but no default recipients configured",
			zap.Int("meeting_id", p.MeetingID),
		)
		return nil
	}

	typ, err := h.prefs.PreferredTemplate(ctx)
	if err != nil {
		return err
	}
	tpl, err := h.templates.GetByType(ctx, typ)
	if err != nil {
		h.logger.Error("Failed to load preferred template",
			zap.String("type", string(typ)),
			zap.Error(err),
		)
		return err
	}

	m, err := h.meetings.GetByID(ctx, p.MeetingID)
	if err != nil {
		h.logger.Error("Failed to load analyzed meeting",
			zap.Int("meeting_id", p.MeetingID),
			zap.Error(err),
		)
		return err
	}

	subject, body := template.Render(tpl, m)

	_, err = h.emails.Send(ctx, service.SendInput{
		Message: mailer.Message{
			To:      recipients,
			Subject: subject,
			Text:    body,
		},
	})
	if err != nil {
		// single attempt: the meeting record stays persisted regardless
		h.logger.Error("Auto-send failed",
			zap.Int("meeting_id", p.MeetingID),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("Auto-sent meeting report",
		zap.Int("meeting_id", p.MeetingID),
		zap.Strings("to", recipients),
	)
	return nil
}
