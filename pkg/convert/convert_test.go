// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/wevote/pkg/convert"
)

/*
TestToInt verifies that malformed input collapses to zero.
*/
func TestToInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"25", 25},
		{"-3", -3},
		{"ten", 0},
		{"1.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToInt(tt.input))
		})
	}
}
