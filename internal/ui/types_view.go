package ui

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/models"
)

// TypeLabel turns a type tag such as "ai_photo" into "Ai Photo".
func TypeLabel[T ~string](tag T) string {
	words := strings.NewReplacer("_", " ", "-", " ").Replace(string(tag))
	return cases.Title(language.English).String(words)
}

// RenderTypes renders the experience type registry as a table.
func RenderTypes(defs []registry.Definition) string {
	table := &Table{
		Headers:  []string{"Type", "Label", "Output", "Required", "Recommended"},
		MaxWidth: 48,
	}
	for _, d := range defs {
		table.Rows = append(table.Rows, []string{
			string(d.Type),
			TypeLabel(d.Type),
			string(d.OutputType),
			describeRequirements(d.RequiredSteps),
			describeRequirements(d.RecommendedSteps),
		})
	}
	return table.Render()
}

// RenderDefinition renders the full definition of one type.
func RenderDefinition(d registry.Definition) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(TypeLabel(d.Type)) + StyleSubtle.Render(fmt.Sprintf("(%s, output %s)", d.Type, d.OutputType)) + "\n\n")
	sb.WriteString(fmt.Sprintf("  %-12s %s\n", "Required", describeRequirements(d.RequiredSteps)))
	sb.WriteString(fmt.Sprintf("  %-12s %s\n", "Recommended", describeRequirements(d.RecommendedSteps)))

	allowed := "any"
	if len(d.AllowedSteps) > 0 {
		allowed = joinTypes(d.AllowedSteps)
	}
	sb.WriteString(fmt.Sprintf("  %-12s %s\n", "Allowed", allowed))
	return sb.String()
}

func describeRequirements(reqs []registry.StepRequirement) string {
	if len(reqs) == 0 {
		return "-"
	}
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		s := string(r.StepType)
		if mode, ok := r.Config["mode"]; ok {
			s += fmt.Sprintf("(%v)", mode)
		}
		if r.Position != "" {
			s += " @" + string(r.Position)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func joinTypes(ts []models.StepType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
