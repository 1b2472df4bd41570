// Package template splits prompt text into literal runs and {{identifier}}
// placeholders. Parsing is total: text that does not form a well-formed
// placeholder stays literal, byte for byte.
package template

import "strings"

// Kind tells literal segments from placeholder segments.
type Kind int

const (
	Literal Kind = iota
	Placeholder
)

func (k Kind) String() string {
	if k == Placeholder {
		return "placeholder"
	}
	return "literal"
}

// Segment is one run of a parsed prompt. Text is always the raw source text,
// so joining every segment's Text reproduces the prompt. Identifier is set
// for placeholders only and is lower-cased.
type Segment struct {
	Kind       Kind   `json:"kind"`
	Text       string `json:"text"`
	Identifier string `json:"identifier,omitempty"`
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Parse tokenizes prompt. It never fails.
func Parse(prompt string) []Segment {
	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Kind: Literal, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(prompt); {
		start := strings.Index(prompt[i:], openDelim)
		if start < 0 {
			literal.WriteString(prompt[i:])
			break
		}
		start += i
		literal.WriteString(prompt[i:start])

		if ident, end, ok := scanPlaceholder(prompt, start); ok {
			flush()
			segments = append(segments, Segment{
				Kind:       Placeholder,
				Text:       prompt[start:end],
				Identifier: strings.ToLower(ident),
			})
			i = end
			continue
		}

		// Not a placeholder: keep one brace and retry from the next byte so
		// "{{{pet}}" still yields the placeholder after the stray brace.
		literal.WriteByte(prompt[start])
		i = start + 1
	}
	flush()
	return segments
}

// scanPlaceholder reads "{{ident}}" at prompt[start:]. It returns the raw
// identifier and the index just past the closing braces.
func scanPlaceholder(prompt string, start int) (string, int, bool) {
	j := start + len(openDelim)
	k := j
	for k < len(prompt) && isIdentByte(prompt[k], k == j) {
		k++
	}
	if k == j || !strings.HasPrefix(prompt[k:], closeDelim) {
		return "", 0, false
	}
	return prompt[j:k], k + len(closeDelim), true
}

func isIdentByte(b byte, first bool) bool {
	switch {
	case b == '_', 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z':
		return true
	case '0' <= b && b <= '9':
		return !first
	}
	return false
}

// PlaceholdersOf returns the distinct identifiers in prompt, in order of
// first appearance.
func PlaceholdersOf(prompt string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, seg := range Parse(prompt) {
		if seg.Kind != Placeholder {
			continue
		}
		if _, dup := seen[seg.Identifier]; dup {
			continue
		}
		seen[seg.Identifier] = struct{}{}
		out = append(out, seg.Identifier)
	}
	return out
}

// IdentifierOf extracts the identifier from a token that must be exactly one
// placeholder, ignoring surrounding whitespace. "{{Pet}}" gives "pet".
func IdentifierOf(token string) (string, bool) {
	segs := Parse(strings.TrimSpace(token))
	if len(segs) != 1 || segs[0].Kind != Placeholder {
		return "", false
	}
	return segs[0].Identifier, true
}

// Join concatenates the raw text of segments.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
