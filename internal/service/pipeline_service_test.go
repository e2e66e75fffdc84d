package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"minuteshub/internal/analysis"
	"minuteshub/internal/fault"
	"minuteshub/internal/model"
	"minuteshub/internal/mq"
	"minuteshub/internal/transcribe"
)

type PipelineServiceTestSuite struct {
	suite.Suite

	store       *fakeMeetingStore
	transcriber *fakeTranscriber
	analyzer    *fakeAnalyzer
	publisher   *fakePublisher

	service *PipelineService
}

func (s *PipelineServiceTestSuite) SetupTest() {
	s.store = newFakeMeetingStore()
	s.transcriber = &fakeTranscriber{
		result: &transcribe.Result{Text: "transcribed words", Duration: 125},
	}
	s.analyzer = &fakeAnalyzer{
		title:    "Sprint Planning",
		summary:  "We planned the sprint.",
		items:    []analysis.ActionItemDraft{{Text: "write tickets", Assignee: "sam"}},
		speakers: "Speaker 1: transcribed words",
	}
	s.publisher = &fakePublisher{}
	s.service = NewPipelineService(s.store, s.transcriber, s.analyzer, s.publisher, zap.NewNop())
}

func TestPipelineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineServiceTestSuite))
}

func (s *PipelineServiceTestSuite) TestRunText_FullRun() {
	m, err := s.service.RunText(context.Background(), TextInput{
		Title: "typed notes",
		Text:  "we discussed the roadmap",
		Tags:  []string{"planning"},
	})

	s.NoError(err)
	s.Equal("Sprint Planning", m.Title)
	s.Equal("We planned the sprint.", m.Summary)
	// speaker-separated text replaces the raw input
	s.Equal("Speaker 1: transcribed words", m.Transcript)
	// typed meetings carry no duration
	s.Equal(0, m.Duration)
	s.Len(m.ActionItems, 1)
	s.NotEmpty(m.ActionItems[0].ID)
	s.Equal("write tickets", m.ActionItems[0].Text)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(mq.RoutingMeetingAnalyzed, s.publisher.events[0].routingKey)
	payload := s.publisher.events[0].payload.(mq.MeetingAnalyzedPayload)
	s.Equal(m.ID, payload.MeetingID)
}

func (s *PipelineServiceTestSuite) TestRunText_EmptyText() {
	_, err := s.service.RunText(context.Background(), TextInput{Title: "note"})

	s.True(fault.IsValidation(err))
	s.Zero(s.store.updateCalls)
}

func (s *PipelineServiceTestSuite) TestRunText_SpeakerSeparationSkippedWhenEmpty() {
	s.analyzer.speakers = ""

	m, err := s.service.RunText(context.Background(), TextInput{Text: "raw transcript"})

	s.NoError(err)
	s.Equal("raw transcript", m.Transcript)
}

func (s *PipelineServiceTestSuite) TestRunText_PartialAnalysisStillPersists() {
	s.analyzer.summaryErr = errors.New("model overloaded")
	s.analyzer.speakersErr = errors.New("model overloaded")

	m, err := s.service.RunText(context.Background(), TextInput{Text: "raw transcript"})

	s.NoError(err)
	s.Equal("", m.Summary)
	s.Equal("raw transcript", m.Transcript)
	s.Equal("Sprint Planning", m.Title)
	s.Len(m.ActionItems, 1)

	// a partial run still announces itself for auto-send
	s.Len(s.publisher.events, 1)
}

func (s *PipelineServiceTestSuite) TestRunText_TitleFailureKeepsExistingTitle() {
	s.analyzer.titleErr = errors.New("model overloaded")

	m, err := s.service.RunText(context.Background(), TextInput{Title: "Weekly Sync", Text: "raw transcript"})

	s.NoError(err)
	s.Equal("Weekly Sync", m.Title)
}

func (s *PipelineServiceTestSuite) TestRunText_UntitledFallback() {
	s.analyzer.title = ""

	m, err := s.service.RunText(context.Background(), TextInput{Text: "raw transcript"})

	s.NoError(err)
	s.Equal("Untitled Meeting", m.Title)
}

func (s *PipelineServiceTestSuite) TestRunText_SingleFinalWrite() {
	_, err := s.service.RunText(context.Background(), TextInput{Text: "raw transcript"})

	s.NoError(err)
	s.Equal(1, s.store.updateCalls)
}

func (s *PipelineServiceTestSuite) TestRunText_ReusesExistingMeeting() {
	ctx := context.Background()
	existing, err := s.store.Create(ctx, &model.Meeting{Title: "Imported", UserID: model.DemoUserID})
	s.Require().NoError(err)

	m, err := s.service.RunText(ctx, TextInput{Text: "raw transcript", MeetingID: existing.ID})

	s.NoError(err)
	s.Equal(existing.ID, m.ID)
	s.Len(s.store.meetings, 1)
}

func (s *PipelineServiceTestSuite) TestRunAudio_TranscriptionFaultAbortsRun() {
	s.transcriber.err = fault.New(fault.KindTranscription, "backend rejected audio")

	_, err := s.service.RunAudio(context.Background(), AudioInput{
		Audio:    []byte{0x01},
		Filename: "standup.mp3",
	})

	s.Error(err)
	s.True(fault.IsKind(err, fault.KindTranscription))
	s.Zero(s.store.updateCalls)
	s.Empty(s.publisher.events)
}

func (s *PipelineServiceTestSuite) TestRunAudio_DurationFromTranscription() {
	m, err := s.service.RunAudio(context.Background(), AudioInput{
		Audio:    []byte{0x01, 0x02},
		Filename: "standup.mp3",
	})

	s.NoError(err)
	s.Equal(125, m.Duration)
	s.Equal(1, s.transcriber.calls)
}

func (s *PipelineServiceTestSuite) TestRunAudio_EmptyAudio() {
	_, err := s.service.RunAudio(context.Background(), AudioInput{Filename: "standup.mp3"})

	s.True(fault.IsValidation(err))
	s.Zero(s.transcriber.calls)
}

func (s *PipelineServiceTestSuite) TestAttachAudio_NoAnalysis() {
	ctx := context.Background()
	existing, err := s.store.Create(ctx, &model.Meeting{Title: "Typed earlier", UserID: model.DemoUserID})
	s.Require().NoError(err)

	m, err := s.service.AttachAudio(ctx, existing.ID, []byte{0x01}, "recap.m4a")

	s.NoError(err)
	s.Equal("transcribed words", m.Transcript)
	s.Equal(125, m.Duration)
	// attaching audio never rewrites title or summary
	s.Equal("Typed earlier", m.Title)
	s.Empty(s.publisher.events)
}

func (s *PipelineServiceTestSuite) TestRegenerateSummary_RequiresTranscript() {
	ctx := context.Background()
	existing, err := s.store.Create(ctx, &model.Meeting{Title: "No transcript", UserID: model.DemoUserID})
	s.Require().NoError(err)

	_, err = s.service.RegenerateSummary(ctx, existing.ID, "")

	s.True(fault.IsValidation(err))
}

func (s *PipelineServiceTestSuite) TestRegenerateSummary_SurfacesAnalysisFault() {
	ctx := context.Background()
	existing, err := s.store.Create(ctx, &model.Meeting{
		Title:      "Has transcript",
		Transcript: "words",
		UserID:     model.DemoUserID,
	})
	s.Require().NoError(err)

	s.analyzer.summaryErr = fault.New(fault.KindAnalysis, "backend down")

	_, err = s.service.RegenerateSummary(ctx, existing.ID, "brief")

	s.True(fault.IsKind(err, fault.KindAnalysis))
}

func (s *PipelineServiceTestSuite) TestRegenerateActionItems_ReplacesList() {
	ctx := context.Background()
	existing, err := s.store.Create(ctx, &model.Meeting{
		Title:       "Has transcript",
		Transcript:  "words",
		UserID:      model.DemoUserID,
		ActionItems: []model.ActionItem{{ID: "old-id", Text: "stale"}},
	})
	s.Require().NoError(err)

	m, err := s.service.RegenerateActionItems(ctx, existing.ID)

	s.NoError(err)
	s.Len(m.ActionItems, 1)
	s.Equal("write tickets", m.ActionItems[0].Text)
	s.NotEqual("old-id", m.ActionItems[0].ID)
}

func (s *PipelineServiceTestSuite) TestAssignItemIDs_Distinct() {
	items := assignItemIDs([]analysis.ActionItemDraft{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	})

	s.Len(items, 3)
	seen := map[string]bool{}
	for _, it := range items {
		s.NotEmpty(it.ID)
		s.False(seen[it.ID])
		seen[it.ID] = true
	}
}
