package model

import "time"

// DemoUserID is the single implicit user all records belong to.
// There is no authentication layer in front of the API.
const DemoUserID = 1

type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost,omitempty"`
}

// ActionItem is a discrete task extracted from or added to a meeting.
// The id is assigned once at creation and survives edits and toggles.
type ActionItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Assignee  string `json:"assignee,omitempty"`
	DueDate   string `json:"dueDate,omitempty"` // date-only, "2006-01-02"
}

// Meeting is the central record: one recorded or typed session plus its
// AI-derived artifacts.
type Meeting struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Date         time.Time     `json:"date"`
	Duration     int           `json:"duration"` // seconds, 0 for typed meetings
	Tags         []string      `json:"tags"`
	UserID       int           `json:"userId"`
	Transcript   string        `json:"transcript,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	AudioURL     string        `json:"audioUrl,omitempty"`
	Participants []Participant `json:"participants"`
	ActionItems  []ActionItem  `json:"actionItems"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasTag reports exact tag membership.
func (m *Meeting) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ActionItem returns the item with the given id, or nil.
func (m *Meeting) ActionItem(id string) *ActionItem {
	for i := range m.ActionItems {
		if m.ActionItems[i].ID == id {
			return &m.ActionItems[i]
		}
	}
	return nil
}
