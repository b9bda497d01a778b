package utils

import "strconv"

// ParseMuteDuration parses a mute duration argument into seconds. A bare
// integer is read as seconds; an s, m, or h suffix multiplies accordingly.
// Anything unparsable means no time unit was supplied, which is a permanent
// mute, expressed as zero seconds.
func ParseMuteDuration(s string) int64 {
	if s == "" {
		return 0
	}

	multiplier := int64(1)
	digits := s
	switch s[len(s)-1] {
	case 's':
		digits = s[:len(s)-1]
	case 'm':
		multiplier = 60
		digits = s[:len(s)-1]
	case 'h':
		multiplier = 3600
		digits = s[:len(s)-1]
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value * multiplier
}
