// Package template renders a meeting into an email subject and body by
// substituting a fixed vocabulary of {{token}} placeholders. Rendering is a
// pure function: no side effects, deterministic for a given input pair.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"minuteshub/internal/model"
)

const (
	dateLayout      = "January 2, 2006"
	previewWords    = 50
	noItemsFallback = "No action items recorded."
)

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes every occurrence of every known token in the template's
// subject and body. Unknown tokens are left verbatim.
func Render(tpl *model.EmailTemplate, m *model.Meeting) (subject, body string) {
	values := tokenValues(m)
	return substitute(tpl.Subject, values), substitute(tpl.Body, values)
}

// ExtractVariables returns the distinct placeholder tokens appearing in
// subject+body, in order of first appearance. Tokens are collected whether or
// not the engine knows them, so a template's declared variables always mirror
// its actual text.
func ExtractVariables(subject, body string) []string {
	seen := map[string]bool{}
	vars := []string{}
	for _, match := range tokenPattern.FindAllStringSubmatch(subject+"\n"+body, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			vars = append(vars, match[1])
		}
	}
	return vars
}

func substitute(text string, values map[string]string) string {
	for token, value := range values {
		text = strings.ReplaceAll(text, "{{"+token+"}}", value)
	}
	return text
}

func tokenValues(m *model.Meeting) map[string]string {
	return map[string]string{
		"meeting_title":      m.Title,
		"meeting_date":       m.Date.Format(dateLayout),
		"duration":           formatDuration(m.Duration),
		"participants":       formatParticipants(m.Participants),
		"action_items":       formatActionItems(m.ActionItems),
		"pending_items":      formatFiltered(m.ActionItems, false),
		"completed_items":    formatFiltered(m.ActionItems, true),
		"tags":               strings.Join(m.Tags, ", "),
		"summary":            m.Summary,
		"transcript_preview": transcriptPreview(m.Transcript),
		"notes":              m.Notes,
	}
}

// formatDuration renders seconds as "Xh Ym" or "Xm".
func formatDuration(seconds int) string {
	minutes := seconds / 60
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatParticipants(ps []model.Participant) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.IsHost {
			names = append(names, p.Name+" (host)")
		} else {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

func formatActionItems(items []model.ActionItem) string {
	if len(items) == 0 {
		return noItemsFallback
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, formatItem(it)))
	}
	return strings.Join(lines, "\n")
}

func formatFiltered(items []model.ActionItem, completed bool) string {
	filtered := []model.ActionItem{}
	for _, it := range items {
		if it.Completed == completed {
			filtered = append(filtered, it)
		}
	}
	return formatActionItems(filtered)
}

func formatItem(it model.ActionItem) string {
	glyph := "[ ]"
	if it.Completed {
		glyph = "[x]"
	}
	line := glyph + " " + it.Text
	if it.Assignee != "" {
		line += " - " + it.Assignee
	}
	if it.DueDate != "" {
		line += " (due " + it.DueDate + ")"
	}
	return line
}

// transcriptPreview returns the first 50 words of the transcript, with an
// ellipsis when the transcript is longer.
func transcriptPreview(transcript string) string {
	words := strings.Fields(transcript)
	if len(words) <= previewWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:previewWords], " ") + "..."
}
