package schema

// PollTable represents the 'wevote.poll' table
type PollTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	OptionA     string
	OptionB     string
	Closed      string
	CreatedAt   string
	ClosesAt    string
	SuggestedBy string
}

// Poll is the schema definition for wevote.poll
var Poll = PollTable{
	Table:       "wevote.poll",
	ID:          "id",
	Title:       "title",
	Description: "description",
	OptionA:     "optiona",
	OptionB:     "optionb",
	Closed:      "closed",
	CreatedAt:   "createdat",
	ClosesAt:    "closesat",
	SuggestedBy: "suggestedby",
}

// Columns returns all standard column names
func (t PollTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.OptionA, t.OptionB, t.Closed, t.CreatedAt,
		t.ClosesAt, t.SuggestedBy,
	}
}
