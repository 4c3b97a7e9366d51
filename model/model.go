package model

// Survey is the persisted record: an owner, a display title, and the raw
// TOML template the respondent form is compiled from.
type Survey struct {
	SurveyID string `json:"surveyId"`
	OwnerID  string `json:"ownerId"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

// FieldKind names one of the supported question renderings. The values
// double as the template's `type` key and, for the single-input kinds,
// as the HTML input type attribute.
type FieldKind string

const (
	KindText       FieldKind = "text"
	KindTextArea   FieldKind = "textarea"
	KindDate       FieldKind = "date"
	KindFile       FieldKind = "file"
	KindRadio      FieldKind = "radio"
	KindCheckbox   FieldKind = "checkbox"
	KindCheckboxes FieldKind = "checkboxes"
)

// SurveyDefinition is the parsed form of a survey template. It lives only
// for the duration of a request.
type SurveyDefinition struct {
	Title       string
	Description string
	Questions   []QuestionDefinition
}

type QuestionDefinition struct {
	Kind    FieldKind
	Prompt  string
	Answers []string
	// FileTypes is accepted by the template format but not rendered yet.
	FileTypes []string
	MaxLength int
}

// FormField is a renderable input descriptor. Name is the zero-based
// ordinal of the question within the survey, so it is only stable for
// a given revision of the template.
type FormField struct {
	Kind      FieldKind
	Name      string
	Label     string
	Options   []string
	MaxLength int
}
