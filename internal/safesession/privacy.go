// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

// Redact strips results the caller may not see yet.
//
// # Rules
//
//  1. Poll not closed: votes and winner become "open".
//  2. Poll not closed and caller has not submitted: votes and predictions
//     become "inaccessible". Winner stays "open".
//  3. Poll closed: everything is exposed.
//
// The outcome depends only on (closed, submitted) and is recomputed on every
// call, so applying it twice is harmless.
func Redact(info *PollInfoForUser) {
	closed := info.Poll.Closed
	submitted := info.Submission != nil

	if !closed {
		info.Poll.Votes = Tally{State: TallyOpen}
		info.Poll.Winner = WinnerOpen
	}

	if !closed && !submitted {
		info.Poll.Votes = Tally{State: TallyInaccessible}
		info.Poll.Predictions = Tally{State: TallyInaccessible}
	}
}

// redactAll applies [Redact] to every element in place.
func redactAll(infos []PollInfoForUser) []PollInfoForUser {
	for i := range infos {
		Redact(&infos[i])
	}
	return infos
}
