package mq

import "time"

// Routing keys.
const (
	RoutingMeetingAnalyzed = "meeting.analyzed"
)

// MeetingAnalyzedPayload is published after a pipeline run persists its
// merged analysis result.
type MeetingAnalyzedPayload struct {
	MeetingID  int       `json:"meeting_id"`
	UserID     int       `json:"user_id"`
	Title      string    `json:"title"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
