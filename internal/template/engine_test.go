package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minuteshub/internal/model"
)

func fixtureMeeting() *model.Meeting {
	return &model.Meeting{
		ID:    7,
		Title: "Sprint Planning",
		Date:  time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC),
		// 1h 32m
		Duration: 5520,
		Tags:     []string{"eng", "planning"},
		Participants: []model.Participant{
			{ID: "p1", Name: "Alex", IsHost: true},
			{ID: "p2", Name: "Sam"},
		},
		ActionItems: []model.ActionItem{
			{ID: "i1", Text: "write tickets", Assignee: "sam", DueDate: "2026-03-20"},
			{ID: "i2", Text: "book room", Completed: true},
		},
		Summary:    "We planned the sprint.",
		Transcript: "hello everyone welcome to sprint planning",
		Notes:      "slides attached",
	}
}

func TestRender_SubstitutesAllTokens(t *testing.T) {
	tpl := &model.EmailTemplate{
		Subject: "Minutes: {{meeting_title}} ({{meeting_date}})",
		Body: "Duration: {{duration}}\n" +
			"Participants: {{participants}}\n" +
			"Tags: {{tags}}\n" +
			"Summary: {{summary}}\n" +
			"Items:\n{{action_items}}\n" +
			"Notes: {{notes}}",
	}

	subject, body := Render(tpl, fixtureMeeting())

	assert.Equal(t, "Minutes: Sprint Planning (March 14, 2026)", subject)
	assert.Contains(t, body, "Duration: 1h 32m")
	assert.Contains(t, body, "Participants: Alex (host), Sam")
	assert.Contains(t, body, "Tags: eng, planning")
	assert.Contains(t, body, "Summary: We planned the sprint.")
	assert.Contains(t, body, "1. [ ] write tickets - sam (due 2026-03-20)")
	assert.Contains(t, body, "2. [x] book room")
	assert.Contains(t, body, "Notes: slides attached")
}

func TestRender_Deterministic(t *testing.T) {
	tpl := &model.EmailTemplate{
		Subject: "{{meeting_title}}",
		Body:    "{{action_items}}\n{{participants}}\n{{tags}}",
	}
	m := fixtureMeeting()

	s1, b1 := Render(tpl, m)
	s2, b2 := Render(tpl, m)

	assert.Equal(t, s1, s2)
	assert.Equal(t, b1, b2)
}

func TestRender_RepeatedToken(t *testing.T) {
	tpl := &model.EmailTemplate{
		Subject: "{{meeting_title}}",
		Body:    "{{meeting_title}} recap for {{meeting_title}}",
	}

	_, body := Render(tpl, fixtureMeeting())

	assert.Equal(t, "Sprint Planning recap for Sprint Planning", body)
}

func TestRender_UnknownTokenLeftVerbatim(t *testing.T) {
	tpl := &model.EmailTemplate{
		Subject: "{{meeting_title}}",
		Body:    "{{weather_report}} and {{summary}}",
	}

	_, body := Render(tpl, fixtureMeeting())

	assert.Equal(t, "{{weather_report}} and We planned the sprint.", body)
}

func TestRender_NoActionItemsFallback(t *testing.T) {
	tpl := &model.EmailTemplate{Subject: "s", Body: "{{action_items}}"}
	m := fixtureMeeting()
	m.ActionItems = nil

	_, body := Render(tpl, m)

	assert.Equal(t, "No action items recorded.", body)
}

func TestRender_PendingAndCompletedSplits(t *testing.T) {
	tpl := &model.EmailTemplate{
		Subject: "s",
		Body:    "PENDING\n{{pending_items}}\nDONE\n{{completed_items}}",
	}

	_, body := Render(tpl, fixtureMeeting())

	assert.Contains(t, body, "PENDING\n1. [ ] write tickets - sam (due 2026-03-20)")
	assert.Contains(t, body, "DONE\n1. [x] book room")
}

func TestRender_DurationUnderAnHour(t *testing.T) {
	tpl := &model.EmailTemplate{Subject: "s", Body: "{{duration}}"}
	m := fixtureMeeting()
	m.Duration = 125

	_, body := Render(tpl, m)

	assert.Equal(t, "2m", body)
}

func TestRender_TranscriptPreviewTruncates(t *testing.T) {
	tpl := &model.EmailTemplate{Subject: "s", Body: "{{transcript_preview}}"}

	m := fixtureMeeting()
	long := ""
	for i := 0; i < 60; i++ {
		long += "word "
	}
	m.Transcript = long

	_, body := Render(tpl, m)

	require.NotEmpty(t, body)
	assert.Contains(t, body, "...")
	// 50 words plus spaces plus the ellipsis
	assert.Equal(t, 50*len("word")+49+3, len(body))
}

func TestRender_ShortTranscriptNotTruncated(t *testing.T) {
	tpl := &model.EmailTemplate{Subject: "s", Body: "{{transcript_preview}}"}

	_, body := Render(tpl, fixtureMeeting())

	assert.Equal(t, "hello everyone welcome to sprint planning", body)
}

func TestExtractVariables_OrderedDistinct(t *testing.T) {
	vars := ExtractVariables(
		"Minutes: {{meeting_title}}",
		"{{summary}} {{meeting_title}} {{custom_token}}",
	)

	assert.Equal(t, []string{"meeting_title", "summary", "custom_token"}, vars)
}

func TestExtractVariables_NoneFound(t *testing.T) {
	vars := ExtractVariables("plain subject", "plain body")

	assert.Empty(t, vars)
}

func TestDefaults_VariablesMirrorText(t *testing.T) {
	for _, tpl := range Defaults() {
		assert.Equal(t, ExtractVariables(tpl.Subject, tpl.Body), tpl.Variables, tpl.Name)
		assert.True(t, tpl.Type.Valid(), tpl.Name)
	}
}
