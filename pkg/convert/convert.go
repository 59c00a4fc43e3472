// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides lenient conversions for optional query parameters.

A malformed value collapses to the zero value, which callers treat as "use the
default". Do not use it where malformed input must be rejected.
*/
package convert

import (
	"strconv"
)

// ToInt converts a string to an int, returning 0 when it is empty or malformed.
func ToInt(s string) int {
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}
