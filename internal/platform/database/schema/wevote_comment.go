package schema

// CommentTable represents the 'wevote.comment' table
type CommentTable struct {
	Table     string
	ID        string
	PollID    string
	UserID    string
	Content   string
	CreatedAt string
}

// Comment is the schema definition for wevote.comment
var Comment = CommentTable{
	Table:     "wevote.comment",
	ID:        "id",
	PollID:    "pollid",
	UserID:    "userid",
	Content:   "content",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CommentTable) Columns() []string {
	return []string{
		t.ID, t.PollID, t.UserID, t.Content, t.CreatedAt,
	}
}
