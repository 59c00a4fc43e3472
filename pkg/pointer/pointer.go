// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer collapses nullable scan targets into plain values.
package pointer

// Val dereferences p, or returns the zero value of T when p is nil. Nullable
// columns such as an empty cosmetic slot scan into *T and leave through Val.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
