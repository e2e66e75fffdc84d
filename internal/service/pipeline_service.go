package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"minuteshub/internal/analysis"
	"minuteshub/internal/fault"
	"minuteshub/internal/model"
	"minuteshub/internal/mq"
	"minuteshub/pkg/metrics"
)

// PipelineService drives a single meeting from raw input to a fully
// analyzed, persisted record. One run per draft at a time: the final store
// write must be the last write for that id within a run.
type PipelineService struct {
	meetings    MeetingStore
	transcriber Transcriber
	analyzer    Analyzer
	publisher   EventPublisher
	logger      *zap.Logger
}

func NewPipelineService(
	meetings MeetingStore,
	transcriber Transcriber,
	analyzer Analyzer,
	publisher EventPublisher,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		meetings:    meetings,
		transcriber: transcriber,
		analyzer:    analyzer,
		publisher:   publisher,
		logger:      logger,
	}
}

type TextInput struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
	// MeetingID, when non-zero, re-runs the pipeline against an existing
	// record instead of creating a new draft.
	MeetingID int `json:"meetingId,omitempty"`
}

type AudioInput struct {
	Title     string   `json:"title"`
	Audio     []byte   `json:"-"`
	Filename  string   `json:"filename"`
	Tags      []string `json:"tags"`
	MeetingID int      `json:"meetingId,omitempty"`
}

// RunText executes the full pipeline for typed text. Typed meetings carry no
// duration concept; it stays 0.
func (s *PipelineService) RunText(ctx context.Context, in TextInput) (*model.Meeting, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fault.Validation("invalid pipeline input", map[string]string{"text": "text must not be empty"})
	}

	draft, err := s.ensureDraft(ctx, in.MeetingID, in.Title, in.Tags)
	if err != nil {
		metrics.IncrementPipelineRun("text", "failed")
		return nil, err
	}

	m, err := s.analyzeAndPersist(ctx, draft, in.Text, 0, "text")
	if err != nil {
		metrics.IncrementPipelineRun("text", "failed")
		return nil, err
	}
	return m, nil
}

// RunAudio executes the full pipeline for recorded or uploaded audio. A
// transcription fault aborts the whole run: nothing downstream is possible
// without a transcript.
func (s *PipelineService) RunAudio(ctx context.Context, in AudioInput) (*model.Meeting, error) {
	if len(in.Audio) == 0 {
		return nil, fault.Validation("invalid pipeline input", map[string]string{"audio": "audio must not be empty"})
	}

	draft, err := s.ensureDraft(ctx, in.MeetingID, in.Title, in.Tags)
	if err != nil {
		metrics.IncrementPipelineRun("audio", "failed")
		return nil, err
	}

	start := time.Now()
	result, err := s.transcriber.Transcribe(ctx, in.Audio, in.Filename)
	if err != nil {
		metrics.RecordPipelineStage("transcribe", "error", time.Since(start))
		metrics.IncrementPipelineRun("audio", "failed")
		s.logger.Error("transcription failed",
			zap.Int("meeting_id", draft.ID),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.RecordPipelineStage("transcribe", "success", time.Since(start))

	m, err := s.analyzeAndPersist(ctx, draft, result.Text, int(result.Duration), "audio")
	if err != nil {
		metrics.IncrementPipelineRun("audio", "failed")
		return nil, err
	}
	return m, nil
}

// AttachAudio transcribes audio and attaches transcript+duration to an
// existing meeting without running analysis.
func (s *PipelineService) AttachAudio(ctx context.Context, meetingID int, audio []byte, filename string) (*model.Meeting, error) {
	if len(audio) == 0 {
		return nil, fault.Validation("invalid upload", map[string]string{"audio": "audio must not be empty"})
	}

	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	result, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, err
	}

	m.Transcript = result.Text
	m.Duration = int(result.Duration)
	return s.meetings.Update(ctx, m)
}

// RegenerateSummary re-runs only the summary operation. Unlike a full run,
// a caller-initiated single regeneration surfaces its analysis fault.
func (s *PipelineService) RegenerateSummary(ctx context.Context, meetingID int, styleHint string) (*model.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Transcript) == "" {
		return nil, fault.Validation("cannot summarize", map[string]string{"transcript": "meeting has no transcript"})
	}

	summary, err := s.analyzer.Summarize(ctx, m.Transcript, styleHint)
	if err != nil {
		return nil, err
	}

	m.Summary = summary
	return s.meetings.Update(ctx, m)
}

// RegenerateActionItems re-runs only the extraction operation, replacing the
// list with freshly id-assigned items.
func (s *PipelineService) RegenerateActionItems(ctx context.Context, meetingID int) (*model.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Transcript) == "" {
		return nil, fault.Validation("cannot extract action items", map[string]string{"transcript": "meeting has no transcript"})
	}

	drafts, err := s.analyzer.ExtractActionItems(ctx, m.Transcript)
	if err != nil {
		return nil, err
	}

	m.ActionItems = assignItemIDs(drafts)
	return s.meetings.Update(ctx, m)
}

func (s *PipelineService) ensureDraft(ctx context.Context, meetingID int, title string, tags []string) (*model.Meeting, error) {
	if meetingID != 0 {
		return s.meetings.GetByID(ctx, meetingID)
	}

	if strings.TrimSpace(title) == "" {
		title = "Untitled Meeting"
	}
	return s.meetings.Create(ctx, &model.Meeting{
		Title:        title,
		Date:         time.Now(),
		Tags:         tags,
		UserID:       model.DemoUserID,
		Participants: []model.Participant{},
		ActionItems:  []model.ActionItem{},
	})
}

// analysisResult collects the outcome of the four concurrent analysis stages.
type analysisResult struct {
	title      string
	titleErr   error
	summary    string
	summaryErr error
	items      []analysis.ActionItemDraft
	itemsErr   error
	speakers   string
	speakersErr error
}

// analyzeAndPersist fans out the four analysis operations, merges tolerated
// partial failures into defaults, and performs the run's single final write.
func (s *PipelineService) analyzeAndPersist(ctx context.Context, m *model.Meeting, transcript string, duration int, source string) (*model.Meeting, error) {
	res := s.fanOutAnalysis(ctx, transcript)

	partial := false

	m.Transcript = transcript
	if m.Duration == 0 {
		m.Duration = duration
	}

	if res.titleErr != nil {
		// keep the existing title
		partial = true
		s.logger.Warn("title generation failed", zap.Int("meeting_id", m.ID), zap.Error(res.titleErr))
	} else if strings.TrimSpace(res.title) != "" {
		m.Title = res.title
	}

	if res.summaryErr != nil {
		partial = true
		m.Summary = ""
		s.logger.Warn("summary generation failed", zap.Int("meeting_id", m.ID), zap.Error(res.summaryErr))
	} else {
		m.Summary = res.summary
	}

	if res.itemsErr != nil {
		partial = true
		m.ActionItems = []model.ActionItem{}
		s.logger.Warn("action item extraction failed", zap.Int("meeting_id", m.ID), zap.Error(res.itemsErr))
	} else {
		m.ActionItems = assignItemIDs(res.items)
	}

	if res.speakersErr != nil || strings.TrimSpace(res.speakers) == "" {
		if res.speakersErr != nil {
			partial = true
			s.logger.Warn("speaker separation failed", zap.Int("meeting_id", m.ID), zap.Error(res.speakersErr))
		}
		// transcript stays unannotated
	} else {
		m.Transcript = res.speakers
	}

	start := time.Now()
	persisted, err := s.meetings.Update(ctx, m)
	if err != nil {
		metrics.RecordPipelineStage("persist", "error", time.Since(start))
		s.logger.Error("pipeline persist failed", zap.Int("meeting_id", m.ID), zap.Error(err))
		return nil, err
	}
	metrics.RecordPipelineStage("persist", "success", time.Since(start))

	status := "success"
	if partial {
		status = "partial"
	}
	metrics.IncrementPipelineRun(source, status)

	s.logger.Info("pipeline run persisted",
		zap.Int("meeting_id", persisted.ID),
		zap.String("source", source),
		zap.String("status", status),
		zap.Int("action_items", len(persisted.ActionItems)),
	)

	if s.publisher != nil {
		payload := mq.MeetingAnalyzedPayload{
			MeetingID:  persisted.ID,
			UserID:     persisted.UserID,
			Title:      persisted.Title,
			AnalyzedAt: time.Now(),
		}
		if err := s.publisher.Publish(mq.RoutingMeetingAnalyzed, payload); err != nil {
			// the record is already saved; event loss only skips auto-send
			s.logger.Error("failed to publish meeting.analyzed", zap.Int("meeting_id", persisted.ID), zap.Error(err))
		}
	}

	return persisted, nil
}

// fanOutAnalysis runs the four operations concurrently. They are
// data-independent: each sees only the transcript, and all four complete
// (or individually fail) before the merge.
func (s *PipelineService) fanOutAnalysis(ctx context.Context, transcript string) *analysisResult {
	res := &analysisResult{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		start := time.Now()
		res.title, res.titleErr = s.analyzer.GenerateTitle(ctx, transcript)
		metrics.RecordPipelineStage("title", stageStatus(res.titleErr), time.Since(start))
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		res.summary, res.summaryErr = s.analyzer.Summarize(ctx, transcript, "")
		metrics.RecordPipelineStage("summary", stageStatus(res.summaryErr), time.Since(start))
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		res.items, res.itemsErr = s.analyzer.ExtractActionItems(ctx, transcript)
		metrics.RecordPipelineStage("actions", stageStatus(res.itemsErr), time.Since(start))
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		res.speakers, res.speakersErr = s.analyzer.SeparateSpeakers(ctx, transcript)
		metrics.RecordPipelineStage("speakers", stageStatus(res.speakersErr), time.Since(start))
	}()

	wg.Wait()
	return res
}

func assignItemIDs(drafts []analysis.ActionItemDraft) []model.ActionItem {
	items := make([]model.ActionItem, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, model.ActionItem{
			ID:       uuid.New().String(),
			Text:     d.Text,
			Assignee: d.Assignee,
			DueDate:  d.DueDate,
		})
	}
	return items
}

func stageStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
