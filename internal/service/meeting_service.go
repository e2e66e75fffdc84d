package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
)

type MeetingService struct {
	store  MeetingStore
	logger *zap.Logger
}

func NewMeetingService(store MeetingStore, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		store:  store,
		logger: logger,
	}
}

type CreateMeetingInput struct {
	Title string     `json:"title"`
	Date  *time.Time `json:"date,omitempty"`
	Tags  []string   `json:"tags"`
	Notes string     `json:"notes"`
}

// MeetingPatch is a shallow-merge update: nil fields are retained, non-nil
// fields overwrite.
type MeetingPatch struct {
	Title        *string              `json:"title,omitempty"`
	Date         *time.Time           `json:"date,omitempty"`
	Duration     *int                 `json:"duration,omitempty"`
	Tags         *[]string            `json:"tags,omitempty"`
	Transcript   *string              `json:"transcript,omitempty"`
	Summary      *string              `json:"summary,omitempty"`
	AudioURL     *string              `json:"audioUrl,omitempty"`
	Participants *[]model.Participant `json:"participants,omitempty"`
	ActionItems  *[]model.ActionItem  `json:"actionItems,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

func (s *MeetingService) Create(ctx context.Context, in CreateMeetingInput) (*model.Meeting, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fault.Validation("invalid meeting", map[string]string{"title": "title must not be empty"})
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	m := &model.Meeting{
		Title:        in.Title,
		Date:         date,
		Tags:         in.Tags,
		UserID:       model.DemoUserID,
		Notes:        in.Notes,
		Participants: []model.Participant{},
		ActionItems:  []model.ActionItem{},
	}

	created, err := s.store.Create(ctx, m)
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting created",
		zap.Int("meeting_id", created.ID),
		zap.String("title", created.Title),
	)
	return created, nil
}

func (s *MeetingService) Get(ctx context.Context, id int) (*model.Meeting, error) {
	return s.store.GetByID(ctx, id)
}

func (s *MeetingService) List(ctx context.Context) ([]model.Meeting, error) {
	return s.store.List(ctx)
}

// Update applies a shallow merge: provided fields overwrite, absent fields
// keep their stored values. Fails with a not-found fault for unknown ids.
func (s *MeetingService) Update(ctx context.Context, id int, patch MeetingPatch) (*model.Meeting, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fault.Validation("invalid meeting", map[string]string{"title": "title must not be empty"})
		}
		m.Title = *patch.Title
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.Duration != nil {
		if *patch.Duration < 0 {
			return nil, fault.Validation("invalid meeting", map[string]string{"duration": "duration must not be negative"})
		}
		m.Duration = *patch.Duration
	}
	if patch.Tags != nil {
		m.Tags = *patch.Tags
	}
	if patch.Transcript != nil {
		m.Transcript = *patch.Transcript
	}
	if patch.Summary != nil {
		m.Summary = *patch.Summary
	}
	if patch.AudioURL != nil {
		m.AudioURL = *patch.AudioURL
	}
	if patch.Participants != nil {
		m.Participants = *patch.Participants
	}
	if patch.ActionItems != nil {
		m.ActionItems = *patch.ActionItems
	}
	if patch.Notes != nil {
		m.Notes = *patch.Notes
	}

	return s.store.Update(ctx, m)
}

// Delete removes the meeting. The bool reports whether a record was removed;
// deleting an absent id is not an error.
func (s *MeetingService) Delete(ctx context.Context, id int) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("meeting deleted", zap.Int("meeting_id", id))
	}
	return removed, nil
}

// Search is a case-insensitive substring match against title, transcript,
// summary and tags. It scans all meetings in memory: O(n) per call, which is
// acceptable at this store's scale.
func (s *MeetingService) Search(ctx context.Context, query string) ([]model.Meeting, error) {
	meetings, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matched := []model.Meeting{}
	for _, m := range meetings {
		if meetingMatches(&m, q) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// ByTag returns meetings with exact tag membership, same scan strategy as
// Search.
func (s *MeetingService) ByTag(ctx context.Context, tag string) ([]model.Meeting, error) {
	meetings, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := []model.Meeting{}
	for _, m := range meetings {
		if m.HasTag(tag) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// AddActionItem appends a new item with a fresh stable id.
func (s *MeetingService) AddActionItem(ctx context.Context, meetingID int, text, assignee, dueDate string) (*model.ActionItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fault.Validation("invalid action item", map[string]string{"text": "text must not be empty"})
	}

	m, err := s.store.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	item := model.ActionItem{
		ID:       uuid.New().String(),
		Text:     text,
		Assignee: assignee,
		DueDate:  dueDate,
	}
	m.ActionItems = append(m.ActionItems, item)

	if _, err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleActionItem flips the completion state of one item, preserving its id.
func (s *MeetingService) ToggleActionItem(ctx context.Context, meetingID int, itemID string) (*model.ActionItem, error) {
	m, err := s.store.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	item := m.ActionItem(itemID)
	if item == nil {
		return nil, fault.NotFound("action item " + itemID + " not found")
	}
	item.Completed = !item.Completed

	if _, err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return item, nil
}

func meetingMatches(m *model.Meeting, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(m.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(m.Transcript), loweredQuery) ||
		strings.Contains(strings.ToLower(m.Summary), loweredQuery) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), loweredQuery) {
			return true
		}
	}
	return false
}
