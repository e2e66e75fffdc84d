package template

import "minuteshub/internal/model"

// Defaults returns the three built-in templates. They are seed data: inserted
// once when the template table is first observed empty, editable afterwards
// like any user template.
func Defaults() []model.EmailTemplate {
	templates := []model.EmailTemplate{
		{
			Name: "Meeting Summary",
			Type: model.TemplateSummary,
			Subject: "Meeting Summary: {{meeting_title}} - {{meeting_date}}",
			Body: `Hello,

Here is the summary of "{{meeting_title}}" held on {{meeting_date}} ({{duration}}).

Participants: {{participants}}

Summary:
{{summary}}

Tags: {{tags}}

Best regards`,
		},
		{
			Name: "Action Items",
			Type: model.TemplateActionItems,
			Subject: "Action Items: {{meeting_title}}",
			Body: `Hello,

Action items from "{{meeting_title}}" ({{meeting_date}}):

Pending:
{{pending_items}}

Completed:
{{completed_items}}

Best regards`,
		},
		{
			Name: "Full Report",
			Type: model.TemplateFullReport,
			Subject: "Meeting Report: {{meeting_title}} - {{meeting_date}}",
			Body: `Hello,

Full report for "{{meeting_title}}" held on {{meeting_date}} ({{duration}}).

Participants: {{participants}}

Summary:
{{summary}}

Action Items:
{{action_items}}

Transcript preview:
{{transcript_preview}}

Notes:
{{notes}}

Tags: {{tags}}

Best regards`,
		},
	}

	for i := range templates {
		templates[i].Variables = ExtractVariables(templates[i].Subject, templates[i].Body)
	}
	return templates
}
