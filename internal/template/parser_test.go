package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   []Segment
	}{
		{
			name:   "empty",
			prompt: "",
			want:   nil,
		},
		{
			name:   "literal only",
			prompt: "A portrait at sunset",
			want:   []Segment{{Kind: Literal, Text: "A portrait at sunset"}},
		},
		{
			name:   "placeholders and literals",
			prompt: "Holding {{pet}}, background {{bg}}",
			want: []Segment{
				{Kind: Literal, Text: "Holding "},
				{Kind: Placeholder, Text: "{{pet}}", Identifier: "pet"},
				{Kind: Literal, Text: ", background "},
				{Kind: Placeholder, Text: "{{bg}}", Identifier: "bg"},
			},
		},
		{
			name:   "identifier is normalized to lower case",
			prompt: "{{Pet_Name2}}",
			want:   []Segment{{Kind: Placeholder, Text: "{{Pet_Name2}}", Identifier: "pet_name2"}},
		},
		{
			name:   "stray leading brace",
			prompt: "{{{pet}}",
			want: []Segment{
				{Kind: Literal, Text: "{"},
				{Kind: Placeholder, Text: "{{pet}}", Identifier: "pet"},
			},
		},
		{
			name:   "unbalanced open stays literal",
			prompt: "Hello {{name",
			want:   []Segment{{Kind: Literal, Text: "Hello {{name"}},
		},
		{
			name:   "empty identifier stays literal",
			prompt: "a {{}} b",
			want:   []Segment{{Kind: Literal, Text: "a {{}} b"}},
		},
		{
			name:   "leading digit stays literal",
			prompt: "{{2pets}}",
			want:   []Segment{{Kind: Literal, Text: "{{2pets}}"}},
		},
		{
			name:   "whitespace inside braces stays literal",
			prompt: "{{ pet }} and {{pet}}",
			want: []Segment{
				{Kind: Literal, Text: "{{ pet }} and "},
				{Kind: Placeholder, Text: "{{pet}}", Identifier: "pet"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.prompt)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompt, Join(got), "segments must reproduce the input")
		})
	}
}

func TestParse_NeverLosesContent(t *testing.T) {
	inputs := []string{
		"}}{{", "{{{{}}}}", "{{a}}{{b}}", "{{é}}", "emoji 🐈 {{cat}} done",
		"{{x-y}}", "{{_}}", "{", "}}", "{{pet}}}",
	}
	for _, in := range inputs {
		assert.Equal(t, in, Join(Parse(in)), "input %q", in)
	}
}

func TestPlaceholdersOf(t *testing.T) {
	got := PlaceholdersOf("{{Pet}} with {{bg}} and another {{pet}} plus {{ bad }}")
	assert.Equal(t, []string{"pet", "bg"}, got)
	assert.Empty(t, PlaceholdersOf("no placeholders here"))
}

func TestIdentifierOf(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"{{pet}}", "pet", true},
		{"  {{Background}} ", "background", true},
		{"pet", "", false},
		{"{{pet}} {{bg}}", "", false},
		{"{{pet}}!", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := IdentifierOf(tt.token)
		assert.Equal(t, tt.wantOK, ok, "token %q", tt.token)
		assert.Equal(t, tt.want, got, "token %q", tt.token)
	}
}
