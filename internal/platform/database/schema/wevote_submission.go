package schema

// SubmissionTable represents the 'wevote.submission' table
//
// One vote and prediction per (poll, user).
type SubmissionTable struct {
	Table       string
	PollID      string
	UserID      string
	VoteA       string
	PredictA    string
	SubmittedAt string
}

// Submission is the schema definition for wevote.submission
var Submission = SubmissionTable{
	Table:       "wevote.submission",
	PollID:      "pollid",
	UserID:      "userid",
	VoteA:       "votea",
	PredictA:    "predicta",
	SubmittedAt: "submittedat",
}

// Columns returns all standard column names
func (t SubmissionTable) Columns() []string {
	return []string{
		t.PollID, t.UserID, t.VoteA, t.PredictA, t.SubmittedAt,
	}
}
