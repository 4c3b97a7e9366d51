package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyforge/model"
)

func TestCompileOneFieldPerQuestion(t *testing.T) {
	def := model.SurveyDefinition{
		Title: "Feedback",
		Questions: []model.QuestionDefinition{
			{Kind: model.KindText, Prompt: "Your name"},
			{Kind: model.KindDate, Prompt: "Date of visit"},
			{Kind: model.KindFile, Prompt: "Attach a screenshot"},
			{Kind: model.KindTextArea, Prompt: "Anything else?", MaxLength: 500},
			{Kind: model.KindCheckbox, Prompt: "Subscribe"},
			{Kind: model.KindRadio, Prompt: "Recommend?", Answers: []string{"Yes", "No"}},
		},
	}

	fields := Compile(def)
	require.Len(t, fields, len(def.Questions))

	for i, f := range fields {
		assert.Equal(t, def.Questions[i].Kind, f.Kind, "field %d", i)
		assert.Equal(t, def.Questions[i].Prompt, f.Label, "field %d", i)
	}
}

func TestCompileOrdinalNames(t *testing.T) {
	def := model.SurveyDefinition{
		Questions: []model.QuestionDefinition{
			{Kind: model.KindText, Prompt: "a"},
			{Kind: model.KindText, Prompt: "b"},
			{Kind: model.KindText, Prompt: "c"},
		},
	}

	fields := Compile(def)
	require.Len(t, fields, 3)
	assert.Equal(t, "0", fields[0].Name)
	assert.Equal(t, "1", fields[1].Name)
	assert.Equal(t, "2", fields[2].Name)
}

func TestCompileChoiceOptions(t *testing.T) {
	answers := []string{"Yes", "No", "Maybe"}
	def := model.SurveyDefinition{
		Questions: []model.QuestionDefinition{
			{Kind: model.KindRadio, Prompt: "Recommend?", Answers: answers},
			{Kind: model.KindCheckboxes, Prompt: "Features", Answers: answers},
		},
	}

	fields := Compile(def)
	require.Len(t, fields, 2)
	assert.Equal(t, answers, fields[0].Options)
	assert.Equal(t, answers, fields[1].Options)
	// one name per group: radio options exclude each other through it
	assert.Equal(t, "0", fields[0].Name)
	assert.Equal(t, "1", fields[1].Name)
}

func TestCompileMaxLength(t *testing.T) {
	def := model.SurveyDefinition{
		Questions: []model.QuestionDefinition{
			{Kind: model.KindTextArea, Prompt: "Bounded", MaxLength: 120},
			{Kind: model.KindTextArea, Prompt: "Unbounded"},
		},
	}

	fields := Compile(def)
	require.Len(t, fields, 2)
	assert.Equal(t, 120, fields[0].MaxLength)
	assert.Zero(t, fields[1].MaxLength)
}

func TestCompileSkipsUnknownKind(t *testing.T) {
	def := model.SurveyDefinition{
		Questions: []model.QuestionDefinition{
			{Kind: model.KindText, Prompt: "first"},
			{Kind: model.FieldKind("hologram"), Prompt: "unrenderable"},
			{Kind: model.KindText, Prompt: "third"},
		},
	}

	fields := Compile(def)
	require.Len(t, fields, 2)
	// the skipped question still consumes its ordinal
	assert.Equal(t, "0", fields[0].Name)
	assert.Equal(t, "2", fields[1].Name)
	assert.Equal(t, "third", fields[1].Label)
}

func TestCompileEmptyDefinition(t *testing.T) {
	fields := Compile(model.SurveyDefinition{})
	assert.Empty(t, fields)
}
