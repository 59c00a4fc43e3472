package schema

// ReplyTable represents the 'wevote.reply' table
type ReplyTable struct {
	Table     string
	ID        string
	CommentID string
	UserID    string
	Content   string
	CreatedAt string
}

// Reply is the schema definition for wevote.reply
var Reply = ReplyTable{
	Table:     "wevote.reply",
	ID:        "id",
	CommentID: "commentid",
	UserID:    "userid",
	Content:   "content",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ReplyTable) Columns() []string {
	return []string{
		t.ID, t.CommentID, t.UserID, t.Content, t.CreatedAt,
	}
}
