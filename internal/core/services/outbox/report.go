package outbox

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// reportData carries everything the grade-report templates need
type reportData struct {
	StudentName string
	CourseName  string
	Week        int
	Session     int
	Title       string
	Score       int
	MaxScore    int
	Percentage  int
	Cumulative  cumulative
	Failed      []domain.TestResult
}

type cumulative struct {
	TotalScore           int
	TotalMaxScore        int
	OverallPercentage    int
	CompletedAssignments int
	TotalAssignments     int
}

func buildReport(data reportData) secondary.MailMessage {
	subject := fmt.Sprintf("%s — Week %d Session %d — %s — Grade Report",
		data.CourseName, data.Week, data.Session, data.Title)
	return secondary.MailMessage{
		Subject: subject,
		HTML:    renderHTML(data),
		Text:    renderText(data),
	}
}

func renderHTML(data reportData) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto;line-height:1.4;color:#111827;">`)
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(data.StudentName))
	b.WriteString("<p>Your assignment has been graded:</p>")
	fmt.Fprintf(&b, `<p style="margin:0;"><strong>%s — Week %d / Session %d — %s</strong></p>`,
		html.EscapeString(data.CourseName), data.Week, data.Session, html.EscapeString(data.Title))
	fmt.Fprintf(&b, `<p style="margin:0;">Score: <strong>%d/%d (%d%%)</strong></p>`,
		data.Score, data.MaxScore, data.Percentage)
	b.WriteString(`<hr style="border:none;border-top:1px solid #e5e7eb;margin:16px 0;" />`)
	b.WriteString(`<p style="margin:0 0 8px 0;"><strong>Cumulative (completed submissions only)</strong></p>`)
	fmt.Fprintf(&b, `<p style="margin:0;">Total: <strong>%d/%d (%d%%)</strong></p>`,
		data.Cumulative.TotalScore, data.Cumulative.TotalMaxScore, data.Cumulative.OverallPercentage)
	fmt.Fprintf(&b, `<p style="margin:0;">Assignments graded: <strong>%d/%d</strong></p>`,
		data.Cumulative.CompletedAssignments, data.Cumulative.TotalAssignments)
	b.WriteString(`<hr style="border:none;border-top:1px solid #e5e7eb;margin:16px 0;" />`)
	b.WriteString(`<p style="margin:0 0 8px 0;"><strong>Failed checks</strong></p>`)
	b.WriteString(renderHTMLFailedChecks(data.Failed))
	b.WriteString(`<p style="margin-top:16px;color:#6b7280;font-size:12px;">If you have failures, recreate the inputs locally and compare expected vs actual outputs.</p>`)
	b.WriteString("</div>")
	return b.String()
}

func renderHTMLFailedChecks(failed []domain.TestResult) string {
	if len(failed) == 0 {
		return "<p><strong>All checks passed.</strong></p>"
	}

	const cell = `<td style="padding:8px;border:1px solid #e5e7eb;vertical-align:top;">`
	var rows strings.Builder
	for _, r := range failed {
		rows.WriteString("<tr>")
		fmt.Fprintf(&rows, `<td style="padding:8px;border:1px solid #e5e7eb;vertical-align:top;white-space:nowrap;">%s #%d</td>`,
			html.EscapeString(r.FunctionName), r.TestIndex)
		fmt.Fprintf(&rows, "%s<code>%s</code></td>", cell, html.EscapeString(toJSON(r.Input)))
		fmt.Fprintf(&rows, "%s<code>%s</code></td>", cell, html.EscapeString(toJSON(r.Expected)))
		fmt.Fprintf(&rows, "%s<code>%s</code></td>", cell, html.EscapeString(toJSON(r.Actual)))
		fmt.Fprintf(&rows, "%s%s</td>", cell, html.EscapeString(r.Error))
		rows.WriteString("</tr>")
	}

	const header = `<th style="text-align:left;padding:8px;border:1px solid #e5e7eb;background:#f9fafb;">`
	return `<table style="border-collapse:collapse;width:100%;font-family:ui-sans-serif,system-ui;"><thead><tr>` +
		header + "Check</th>" + header + "Input</th>" + header + "Expected</th>" +
		header + "Actual</th>" + header + "Error</th>" +
		"</tr></thead><tbody>" + rows.String() + "</tbody></table>"
}

func renderText(data reportData) string {
	lines := []string{
		fmt.Sprintf("Hi %s,", data.StudentName),
		"",
		fmt.Sprintf("Your assignment has been graded: %s — Week %d / Session %d — %s",
			data.CourseName, data.Week, data.Session, data.Title),
		fmt.Sprintf("Score: %d/%d (%d%%)", data.Score, data.MaxScore, data.Percentage),
		"",
		"Cumulative (completed submissions only):",
		fmt.Sprintf("Total: %d/%d (%d%%) — %d/%d assignments graded",
			data.Cumulative.TotalScore, data.Cumulative.TotalMaxScore, data.Cumulative.OverallPercentage,
			data.Cumulative.CompletedAssignments, data.Cumulative.TotalAssignments),
		"",
	}

	if len(data.Failed) == 0 {
		lines = append(lines, "All checks passed. Great work.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("Failed checks (%d):", len(data.Failed)))
	for _, f := range data.Failed {
		lines = append(lines, fmt.Sprintf("- %s #%d", f.FunctionName, f.TestIndex))
		lines = append(lines, "  input: "+toJSON(f.Input))
		lines = append(lines, "  expected: "+toJSON(f.Expected))
		lines = append(lines, "  actual: "+toJSON(f.Actual))
		if f.Error != "" {
			lines = append(lines, "  error: "+f.Error)
		}
	}
	return strings.Join(lines, "\n")
}

func toJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
