package schema

// SuggestionTable represents the 'wevote.suggestion' table
type SuggestionTable struct {
	Table       string
	ID          string
	SuggesterID string
	Title       string
	Description string
	OptionA     string
	OptionB     string
	Dismissed   string
	CreatedAt   string
}

// Suggestion is the schema definition for wevote.suggestion
var Suggestion = SuggestionTable{
	Table:       "wevote.suggestion",
	ID:          "id",
	SuggesterID: "suggesterid",
	Title:       "title",
	Description: "description",
	OptionA:     "optiona",
	OptionB:     "optionb",
	Dismissed:   "dismissed",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t SuggestionTable) Columns() []string {
	return []string{
		t.ID, t.SuggesterID, t.Title, t.Description, t.OptionA, t.OptionB,
		t.Dismissed, t.CreatedAt,
	}
}
