package prompt

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/josephgoksu/Guestflow/internal/template"
	"github.com/josephgoksu/Guestflow/models"
)

// ErrNotTransform is returned by Render for a step that is not an
// ai-transform step.
var ErrNotTransform = errors.New("step is not an ai-transform step")

// Compose substitutes resolved values into segments. resolved is keyed by
// placeholder identifier, case-insensitively; when keys differ only by case
// the lower-case key wins, otherwise the first key in sorted order.
// Placeholders without a value are kept as written. Values are flattened to
// one line and cannot introduce new placeholders.
func Compose(segments []template.Segment, resolved map[string]string) string {
	values := make(map[string]string, len(resolved))
	for _, k := range slices.Sorted(maps.Keys(resolved)) {
		ident := strings.ToLower(k)
		if _, taken := values[ident]; taken && k != ident {
			continue
		}
		values[ident] = sanitize(resolved[k])
	}

	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind == template.Placeholder {
			if v, ok := values[seg.Identifier]; ok {
				b.WriteString(v)
				continue
			}
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// sanitize collapses every run of control characters (newlines included)
// into one space and turns curly braces into parentheses, so no value, alone
// or next to another, can spell a placeholder.
func sanitize(v string) string {
	var b strings.Builder
	inRun := false
	for _, r := range v {
		if unicode.IsControl(r) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return braceReplacer.Replace(b.String())
}

var braceReplacer = strings.NewReplacer("{", "(", "}", ")")

// Render builds the final prompt of one ai-transform step. steps are the
// experience's steps and are used to recognise multi-select sources. Each
// variable's value is bound to the identifier of its placeholder.
func Render(step models.Step, steps []models.Step, session SessionValues, event models.EventMeta) (string, error) {
	cfg, ok := step.AITransform()
	if !ok {
		return "", fmt.Errorf("render %q: %w", step.ID, ErrNotTransform)
	}

	values, err := NewResolver(steps...).Resolve(cfg.Variables, session, event)
	if err != nil {
		return "", err
	}

	bound := make(map[string]string, len(values))
	for _, v := range cfg.Variables {
		ident, ok := template.IdentifierOf(v.Placeholder())
		if !ok {
			continue
		}
		bound[ident] = values[v.Key]
	}
	return Compose(template.Parse(cfg.Prompt), bound), nil
}
