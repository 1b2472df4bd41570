package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/Guestflow/types"
)

// RenderReport formats a validation result for the terminal. source names
// the document being reported on.
func RenderReport(source string, result types.ValidationResult) string {
	var sb strings.Builder

	status := Icon("✓ valid", StylePrefixDone)
	if !result.Valid {
		status = Icon("✗ invalid", StylePrefixError)
	}
	sb.WriteString(fmt.Sprintf("%s  %s\n", StyleTitle.Render(source), status))

	if len(result.Errors) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Errors") + "\n")
		for _, e := range result.Errors {
			sb.WriteString(formatFinding(StylePrefixError.Render("✗"), string(e.Code), e.Message, e.StepID, e.Field))
		}
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Warnings") + "\n")
		for _, w := range result.Warnings {
			sb.WriteString(formatFinding(StylePrefixWarn.Render("!"), string(w.Code), w.Message, w.StepID, w.Field))
		}
	}

	sb.WriteString("\n" + StyleSubtle.Render(fmt.Sprintf("%s, %s",
		plural(len(result.Errors), "error"),
		plural(len(result.Warnings), "warning"))) + "\n")
	return sb.String()
}

func formatFinding(icon, code, message, stepID, field string) string {
	var loc []string
	if stepID != "" {
		loc = append(loc, "step "+stepID)
	}
	if field != "" {
		loc = append(loc, field)
	}

	line := fmt.Sprintf("  %s %s %s", icon, StylePrimary.Render(code), message)
	if len(loc) > 0 {
		line += " " + StyleSubtle.Render("("+strings.Join(loc, ", ")+")")
	}
	return line + "\n"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
