package prompt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/Guestflow/internal/template"
	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

var scenarioVars = []models.AiTransformVariable{
	{Key: "pet", SourceType: models.SourceInput, SourceStepID: "s1", Required: true},
	{Key: "bg", SourceType: models.SourceStatic, StaticValue: "forest"},
}

const scenarioPrompt = "Holding {{pet}}, background {{bg}}"

func TestResolveAndCompose_HappyPath(t *testing.T) {
	resolved, err := Resolve(scenarioVars, SessionValues{"s1": TextValue("a cat")}, models.EventMeta{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"pet": "a cat", "bg": "forest"}, resolved)

	got := Compose(template.Parse(scenarioPrompt), resolved)
	assert.Equal(t, "Holding a cat, background forest", got)
}

func TestResolve_MissingRequiredValue(t *testing.T) {
	resolved, err := Resolve(scenarioVars, SessionValues{}, models.EventMeta{})
	require.Error(t, err)
	assert.Nil(t, resolved, "no partial map on failure")

	var re *ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, types.CodeMissingRequiredValue, re.Code)
	assert.Equal(t, "pet", re.Key)
	assert.Equal(t, "s1", re.StepID)
	assert.True(t, IsMissingRequiredValue(err))
	assert.False(t, IsMissingRequiredValue(errors.New("other")))
}

func TestResolve_BlankAnswerCountsAsMissing(t *testing.T) {
	_, err := Resolve(scenarioVars, SessionValues{"s1": TextValue("   ")}, models.EventMeta{})
	assert.True(t, IsMissingRequiredValue(err))
}

func TestResolve_MultiSelect(t *testing.T) {
	vars := []models.AiTransformVariable{{Key: "pets", SourceType: models.SourceInput, SourceStepID: "s1"}}

	resolved, err := Resolve(vars, SessionValues{"s1": MultiSelectValue("dog", "chicken")}, models.EventMeta{})
	require.NoError(t, err)
	assert.Equal(t, "dog and chicken", resolved["pets"])

	// The step config marks it multi-select even when the session value does not.
	steps := []models.Step{{
		ID:     "s1",
		Type:   models.StepMultipleChoice,
		Config: models.MultipleChoiceConfig{AllowMultiple: true},
	}}
	resolved, err = NewResolver(steps...).Resolve(vars,
		SessionValues{"s1": {Text: "ignored", Selections: []string{"dog", "cat", "chicken"}}}, models.EventMeta{})
	require.NoError(t, err)
	assert.Equal(t, "dog, cat and chicken", resolved["pets"])
}

func TestResolve_OptionalSources(t *testing.T) {
	vars := []models.AiTransformVariable{
		{Key: "nick", SourceType: models.SourceInput, SourceStepID: "q9"},
		{Key: "face", SourceType: models.SourceCapture, SourceStepID: "c1"},
		{Key: "shot", SourceType: models.SourceCapture, SourceStepID: "c2"},
		{Key: "brand", SourceType: models.SourceEvent, EventField: models.EventFieldCompanyName},
		{Key: "city", SourceType: models.SourceEvent, EventField: models.EventFieldLocation},
		{Key: "odd", SourceType: "webhook"},
	}
	session := SessionValues{"c1": CaptureLabel("smiling guest")}
	event := models.EventMeta{CompanyName: "Acme"}

	resolved, err := Resolve(vars, session, event)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"nick":  "",
		"face":  "smiling guest",
		"shot":  "",
		"brand": "Acme",
		"city":  "",
		"odd":   "",
	}, resolved)
}

// Same inputs, same output.
func TestResolve_Idempotent(t *testing.T) {
	session := SessionValues{"s1": MultiSelectValue("a", "b", "c")}
	event := models.EventMeta{Name: "Launch"}
	vars := append([]models.AiTransformVariable{{Key: "ev", SourceType: models.SourceEvent, EventField: models.EventFieldName}}, scenarioVars...)

	first, err1 := Resolve(vars, session, event)
	second, err2 := Resolve(vars, session, event)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, "a, b and c", first["pet"])
}

func TestJoinNatural(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"dog"}, "dog"},
		{[]string{"dog", "chicken"}, "dog and chicken"},
		{[]string{"a", "b", "c"}, "a, b and c"},
		{[]string{"a", " ", "b"}, "a and b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinNatural(tt.in))
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		resolved map[string]string
		want     string
	}{
		{"unresolved placeholder kept", "Hi {{name}} at {{place}}", map[string]string{"name": "Ada"}, "Hi Ada at {{place}}"},
		{"case-insensitive identifiers", "A {{Pet}}", map[string]string{"PET": "cat"}, "A cat"},
		{"control runs collapse", "Say {{msg}}!", map[string]string{"msg": "hello\r\n\n\tworld"}, "Say hello world!"},
		{"malformed tokens pass through", "{{ pet }} {{pet", map[string]string{"pet": "cat"}, "{{ pet }} {{pet"},
		{"no markup escaping", "{{v}}", map[string]string{"v": "<b>&</b>"}, "<b>&</b>"},
		{"empty value removes placeholder", "[{{v}}]", map[string]string{"v": ""}, "[]"},
		{"braces in values become parentheses", "{{v}}", map[string]string{"v": "{{x}} and {y}"}, "((x)) and (y)"},
		{"lower-case key wins a case collision", "A {{pet}}", map[string]string{"Pet": "dog", "pet": "cat", "PET": "cow"}, "A cat"},
		{"sorted order settles other collisions", "A {{pet}}", map[string]string{"Pet": "dog", "PET": "cow"}, "A cow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(template.Parse(tt.prompt), tt.resolved))
		})
	}
}

// Once every placeholder is resolved, none remain in the output.
func TestCompose_ResolvedPlaceholdersVanish(t *testing.T) {
	prompts := []string{
		scenarioPrompt,
		"{{a}}{{b}}{{a}}",
		"Start {{X}} middle {{y}} end",
		"{{a}}{{b}}{{c}}",
	}
	values := []map[string]string{
		{"pet": "{{bg}}", "bg": "{{{pet}}}"},
		{"a": "{{b}}", "b": "}}{{a"},
		{"x": "{{y}}\n{{x}}", "y": "plain"},
		{"a": "{", "b": "{y}", "c": "}"},
	}
	for i, p := range prompts {
		out := Compose(template.Parse(p), values[i])
		assert.Empty(t, template.PlaceholdersOf(out), "prompt %q produced %q", p, out)
	}
}

func TestRender(t *testing.T) {
	steps := []models.Step{
		{ID: "s1", Type: models.StepMultipleChoice, Config: models.MultipleChoiceConfig{AllowMultiple: true}},
		{ID: "ai", Type: models.StepAITransform, Config: models.AiTransformConfig{
			Prompt: "A {{animal}} party for {{event}} in {{bg}}",
			Variables: []models.AiTransformVariable{
				{Key: "pets", SourceType: models.SourceInput, SourceStepID: "s1", PromptPlaceholder: "{{animal}}", Required: true},
				{Key: "event", SourceType: models.SourceEvent, EventField: models.EventFieldName},
				{Key: "bg", SourceType: models.SourceStatic, StaticValue: "space"},
			},
		}},
	}
	session := SessionValues{"s1": {Selections: []string{"dog", "chicken"}}}

	got, err := Render(steps[1], steps, session, models.EventMeta{Name: "Launch Night"})
	require.NoError(t, err)
	assert.Equal(t, "A dog and chicken party for Launch Night in space", got)

	_, err = Render(steps[1], steps, SessionValues{}, models.EventMeta{})
	assert.True(t, IsMissingRequiredValue(err))

	_, err = Render(steps[0], steps, session, models.EventMeta{})
	assert.ErrorIs(t, err, ErrNotTransform)
}

func TestSessionValues_Decode(t *testing.T) {
	const js = `{"s1": "a cat", "s2": ["dog", "chicken"], "s3": {"label": "selfie"}, "s4": 7, "s5": null}`
	var fromJSON SessionValues
	require.NoError(t, json.Unmarshal([]byte(js), &fromJSON))

	const ym = `
s1: a cat
s2: [dog, chicken]
s3:
  label: selfie
s4: 7
s5: null
`
	var fromYAML SessionValues
	require.NoError(t, yaml.Unmarshal([]byte(ym), &fromYAML))

	for name, sv := range map[string]SessionValues{"json": fromJSON, "yaml": fromYAML} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, TextValue("a cat"), sv["s1"])
			assert.Equal(t, MultiSelectValue("dog", "chicken"), sv["s2"])
			assert.Equal(t, CaptureLabel("selfie"), sv["s3"])
			assert.Equal(t, TextValue("7"), sv["s4"])
			assert.Equal(t, SessionValue{}, sv["s5"])
		})
	}
}
