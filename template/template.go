// Package template parses the TOML survey definition format:
//
//	[meta]
//	title = "Customer feedback"
//	description = "Five minutes, tops."
//
//	[[questions]]
//	type = "radio"
//	prompt = "Would you recommend us?"
//	answers = ["Yes", "No"]
package template

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"surveyforge/model"
)

var (
	// ErrParse wraps malformed TOML.
	ErrParse = errors.New("malformed survey template")
	// ErrValidation wraps a well-formed document missing required parts.
	ErrValidation = errors.New("incomplete survey template")
)

type document struct {
	Meta      meta       `toml:"meta"`
	Questions []question `toml:"questions"`
}

type meta struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type question struct {
	Type      string   `toml:"type"`
	Prompt    string   `toml:"prompt"`
	Answers   []string `toml:"answers"`
	FileTypes []string `toml:"filetypes"`
	MaxLength int      `toml:"maxlength"`
}

// Parse turns a template into a SurveyDefinition. It has no side effects;
// errors carry enough detail to show the author what to fix.
func Parse(text string) (model.SurveyDefinition, error) {
	var doc document
	err := toml.Unmarshal([]byte(text), &doc)
	if err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return model.SurveyDefinition{}, fmt.Errorf("%w: line %d, column %d: %s", ErrParse, row, col, decodeErr.Error())
		}
		return model.SurveyDefinition{}, fmt.Errorf("%w: %s", ErrParse, err)
	}

	if doc.Meta.Title == "" {
		return model.SurveyDefinition{}, fmt.Errorf("%w: missing meta.title", ErrValidation)
	}
	if len(doc.Questions) == 0 {
		return model.SurveyDefinition{}, fmt.Errorf("%w: missing questions", ErrValidation)
	}

	def := model.SurveyDefinition{
		Title:       doc.Meta.Title,
		Description: doc.Meta.Description,
		Questions:   make([]model.QuestionDefinition, 0, len(doc.Questions)),
	}
	for _, q := range doc.Questions {
		def.Questions = append(def.Questions, model.QuestionDefinition{
			Kind:      model.FieldKind(q.Type),
			Prompt:    q.Prompt,
			Answers:   q.Answers,
			FileTypes: q.FileTypes,
			MaxLength: q.MaxLength,
		})
	}
	return def, nil
}
