package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMuteDuration(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"", 0},
		{"30", 30},
		{"45s", 45},
		{"10m", 600},
		{"2h", 7200},
		{"0", 0},
		{"0m", 0},
		{"abc", 0},
		{"10x", 0},
		{"m", 0},
		{"-5m", 0},
		{"1.5h", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMuteDuration(tc.input), "input %q", tc.input)
	}
}
