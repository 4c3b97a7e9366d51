// Package form compiles a parsed survey definition into renderable fields.
package form

import (
	"strconv"

	"surveyforge/log"
	"surveyforge/model"
)

// Compile maps each question to a form field, in declaration order.
// Field names are the zero-based ordinal of the question, so collected
// answers are keyed by position, not by a stable question identity: editing
// a survey reorders which answer belongs to which question.
//
// Questions with an unknown type are skipped rather than aborting the whole
// form; their ordinal is still consumed, so the remaining names line up with
// the template.
func Compile(def model.SurveyDefinition) []model.FormField {
	fields := make([]model.FormField, 0, len(def.Questions))
	for i, q := range def.Questions {
		name := strconv.Itoa(i)

		switch q.Kind {
		case model.KindText, model.KindDate, model.KindFile:
			fields = append(fields, model.FormField{
				Kind:  q.Kind,
				Name:  name,
				Label: q.Prompt,
			})

		case model.KindTextArea:
			fields = append(fields, model.FormField{
				Kind:      q.Kind,
				Name:      name,
				Label:     q.Prompt,
				MaxLength: q.MaxLength,
			})

		case model.KindCheckbox:
			fields = append(fields, model.FormField{
				Kind:  q.Kind,
				Name:  name,
				Label: q.Prompt,
			})

		case model.KindRadio, model.KindCheckboxes:
			// every option shares the field name; for radio that is what
			// makes the group mutually exclusive
			fields = append(fields, model.FormField{
				Kind:    q.Kind,
				Name:    name,
				Label:   q.Prompt,
				Options: q.Answers,
			})

		default:
			log.Debugf("form.compile: skipping question %d, unknown type %q", i, q.Kind)
		}
	}
	return fields
}
