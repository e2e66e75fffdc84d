package model

import "time"

// TemplateType selects the editorial focus of a built-in or user template.
type TemplateType string

const (
	TemplateSummary     TemplateType = "summary"
	TemplateActionItems TemplateType = "action_items"
	TemplateFullReport  TemplateType = "full_report"
)

func (t TemplateType) Valid() bool {
	switch t {
	case TemplateSummary, TemplateActionItems, TemplateFullReport:
		return true
	}
	return false
}

// EmailTemplate is a named, typed pair of placeholder-bearing strings.
// Variables is derived from the tokens present in Subject+Body and is
// recomputed on every write, never hand-maintained.
type EmailTemplate struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Variables []string     `json:"variables"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
