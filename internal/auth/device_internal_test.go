// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestDescribeDevice verifies the browser and platform summary written to the session log.
*/
func TestDescribeDevice(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{
			name:   "Empty",
			header: "",
			want:   []string{"Unknown Device"},
		},
		{
			name:   "ChromeOnMac",
			header: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			want:   []string{"Chrome", " on ", "Mac OS X"},
		},
		{
			name:   "FirefoxOnLinux",
			header: "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			want:   []string{"Firefox", " on ", "Linux"},
		},
		{
			name:   "SafariOnIPhone",
			header: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			want:   []string{" on ", "iPhone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeDevice(tt.header)
			for _, part := range tt.want {
				assert.Contains(t, got, part)
			}
			assert.Equal(t, strings.TrimSpace(got), got)
		})
	}
}
