// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/safesession"
)

func tallied(closed bool, submitted bool) safesession.PollInfoForUser {
	votes := safesession.NewCounts(3, 1)
	info := safesession.PollInfoForUser{
		Poll: safesession.PollInfo{
			ID:               1,
			Votes:            safesession.Visible(votes),
			TotalSubmissions: 4,
			Winner:           safesession.WinnerOf(votes),
			Predictions:      safesession.Visible(safesession.NewCounts(2, 2)),
			Closed:           closed,
		},
	}
	if submitted {
		info.Submission = &safesession.Submission{VotedA: true}
	}
	return info
}

/*
TestRedact covers every (closed, submitted) combination.
*/
func TestRedact(t *testing.T) {
	tests := []struct {
		name            string
		closed          bool
		submitted       bool
		votes           safesession.TallyState
		winner          safesession.Winner
		predictions     safesession.TallyState
		predictionsSeen bool
	}{
		{"open_not_submitted", false, false, safesession.TallyInaccessible, safesession.WinnerOpen, safesession.TallyInaccessible, false},
		{"open_submitted", false, true, safesession.TallyOpen, safesession.WinnerOpen, safesession.TallyVisible, true},
		{"closed_not_submitted", true, false, safesession.TallyVisible, safesession.WinnerA, safesession.TallyVisible, true},
		{"closed_submitted", true, true, safesession.TallyVisible, safesession.WinnerA, safesession.TallyVisible, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tallied(tt.closed, tt.submitted)
			safesession.Redact(&info)

			assert.Equal(t, tt.votes, info.Poll.Votes.State)
			assert.Equal(t, tt.winner, info.Poll.Winner)
			assert.Equal(t, tt.predictions, info.Poll.Predictions.State)
			if tt.predictionsSeen {
				assert.Equal(t, 2, info.Poll.Predictions.Counts.A)
			}
			if tt.closed {
				assert.Equal(t, 3, info.Poll.Votes.Counts.A)
			}

			// A second pass changes nothing.
			again := info
			safesession.Redact(&again)
			assert.Equal(t, info, again)
		})
	}
}

/*
TestTally_JSON verifies the wire shape of redacted and visible tallies.
*/
func TestTally_JSON(t *testing.T) {
	info := tallied(false, false)
	safesession.Redact(&info)

	data, err := json.Marshal(info.Poll)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "inaccessible", wire["votes"])
	assert.Equal(t, "inaccessible", wire["predictions"])
	assert.Equal(t, "open", wire["winner"])

	visible := tallied(true, false)
	data, err = json.Marshal(visible.Poll.Votes)
	require.NoError(t, err)

	var decoded safesession.Tally
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsVisible())
	assert.Equal(t, 0.75, decoded.Counts.PercentA)
}
