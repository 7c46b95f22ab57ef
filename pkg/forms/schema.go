// Package forms holds the declarative article-editor form: its field
// schema, a small form-state store, and the controller that mediates
// between the form and the article domain.
package forms

type FieldType string

const (
	FieldInput    FieldType = "INPUT"
	FieldTextarea FieldType = "TEXTAREA"
)

// Field describes one entry of the rendered form.
type Field struct {
	Type        FieldType `json:"type"`
	Name        string    `json:"name"`
	Placeholder string    `json:"placeholder"`
	Required    bool      `json:"required"`
}

// Mode selects the editor variant. It is passed in explicitly by the caller
// rather than inferred from the navigation path.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var baseSchema = []Field{
	{Type: FieldInput, Name: "title", Placeholder: "Article Title", Required: true},
	{Type: FieldInput, Name: "description", Placeholder: "What's this article about?", Required: true},
	{Type: FieldTextarea, Name: "body", Placeholder: "Write your article (in markdown)", Required: true},
	{Type: FieldInput, Name: "tagList", Placeholder: "Enter Tags"},
}

var coAuthorField = Field{
	Type:        FieldInput,
	Name:        "coAuthors",
	Placeholder: "Other authors' email (comma-separated)",
}

// BuildSchema returns the ordered field list for the given mode. Edit mode
// appends the co-author field; create mode does not show it.
func BuildSchema(mode Mode) []Field {
	schema := make([]Field, len(baseSchema), len(baseSchema)+1)
	copy(schema, baseSchema)

	if mode == ModeEdit {
		schema = append(schema, coAuthorField)
	}

	return schema
}
