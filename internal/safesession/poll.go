// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"encoding/json"
	"time"
)

// # Tally

// TallyState says whether a [Tally] carries numbers or a redaction sentinel.
type TallyState string

const (
	// TallyVisible means the counts are exposed.
	TallyVisible TallyState = ""
	// TallyOpen means the poll is still running and results are hidden.
	TallyOpen TallyState = "open"
	// TallyInaccessible means the caller must submit before seeing aggregates.
	TallyInaccessible TallyState = "inaccessible"
)

// Counts holds a binary tally.
type Counts struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	PercentA float64 `json:"percentA"`
	PercentB float64 `json:"percentB"`
}

// NewCounts derives percentages from raw counts. An empty tally is 0/0.
func NewCounts(a, b int) Counts {
	counts := Counts{A: a, B: b}
	if total := a + b; total > 0 {
		counts.PercentA = float64(a) / float64(total)
		counts.PercentB = 1 - counts.PercentA
	}
	return counts
}

// Tally is either visible [Counts] or a sentinel.
//
// It marshals to a JSON object when visible and to the sentinel string otherwise.
type Tally struct {
	State  TallyState
	Counts Counts
}

// Visible wraps counts in a visible [Tally].
func Visible(counts Counts) Tally { return Tally{Counts: counts} }

// IsVisible reports whether the counts may be read.
func (t Tally) IsVisible() bool { return t.State == TallyVisible }

// MarshalJSON implements [json.Marshaler].
func (t Tally) MarshalJSON() ([]byte, error) {
	if t.State != TallyVisible {
		return json.Marshal(string(t.State))
	}
	return json.Marshal(t.Counts)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Tally) UnmarshalJSON(data []byte) error {
	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err == nil {
		*t = Tally{State: TallyState(sentinel)}
		return nil
	}
	var counts Counts
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	*t = Visible(counts)
	return nil
}

// # Winner

// Winner is the poll outcome, or a redaction sentinel.
type Winner string

const (
	WinnerA            Winner = "A"
	WinnerB            Winner = "B"
	WinnerTie          Winner = "Tie"
	WinnerOpen         Winner = "open"
	WinnerInaccessible Winner = "inaccessible"
)

// WinnerOf picks the winner from a vote tally.
func WinnerOf(votes Counts) Winner {
	switch {
	case votes.A > votes.B:
		return WinnerA
	case votes.B > votes.A:
		return WinnerB
	default:
		return WinnerTie
	}
}

// # Poll Entities

// Options are the two choices of a poll.
type Options struct {
	A string `json:"a"`
	B string `json:"b"`
}

// PollInfo is a poll's public data.
type PollInfo struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Options          Options   `json:"options"`
	Votes            Tally     `json:"votes"`
	TotalSubmissions int       `json:"totalSubmissions"`
	Winner           Winner    `json:"winner"`
	Predictions      Tally     `json:"predictions"`
	Closed           bool      `json:"closed"`
	CreationDate     time.Time `json:"creationDate"`
	EndDate          time.Time `json:"endDate"`
	SuggestedBy      *string   `json:"suggestedBy"`
}

// Submission is one user's vote and prediction on one poll.
type Submission struct {
	VotedA     bool `json:"votedA"`
	PredictedA bool `json:"predictedA"`
}

// PollInfoForUser is a poll plus the caller's own submission, if any.
type PollInfoForUser struct {
	Poll       PollInfo    `json:"poll"`
	Submission *Submission `json:"submission"`
}

// # Comments

// Author identifies who wrote a comment or reply.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Reply is an answer to a [Comment].
type Reply struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"commentId"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a top-level comment on a poll with its replies nested in time order.
type Comment struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"pollId"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Reply   `json:"replies"`
}

// # Suggestions

// Suggestion is a user-proposed poll awaiting admin review.
type Suggestion struct {
	ID          int64     `json:"id"`
	SuggesterID string    `json:"suggesterId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Options     Options   `json:"options"`
	Dismissed   bool      `json:"dismissed"`
	CreatedAt   time.Time `json:"createdAt"`
}
