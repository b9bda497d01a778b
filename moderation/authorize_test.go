package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMayAct(t *testing.T) {
	cases := []struct {
		name           string
		actorRank      int
		actorID        string
		targetRank     int
		targetID       string
		targetIsMember bool
		allowed        bool
		reason         DenyReason
	}{
		{"senior over junior", 10, "mod", 3, "user", true, true, ""},
		{"equal rank denied", 5, "mod", 5, "user", true, false, DenyInsufficientRank},
		{"junior over senior denied", 3, "mod", 10, "user", true, false, DenyInsufficientRank},
		{"self target denied", 10, "mod", 10, "mod", true, false, DenySelfTarget},
		{"self target wins over rank", 3, "mod", 3, "mod", true, false, DenySelfTarget},
		{"non-member ignores rank", 0, "mod", 99, "user", false, true, ""},
		{"non-member self still denied", 0, "mod", 0, "mod", false, false, DenySelfTarget},
		{"both rankless members denied", 0, "mod", 0, "user", true, false, DenyInsufficientRank},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := MayAct(tc.actorRank, tc.actorID, tc.targetRank, tc.targetID, tc.targetIsMember)
			assert.Equal(t, tc.allowed, decision.Allowed)
			if !tc.allowed {
				assert.Equal(t, tc.reason, decision.Reason)
			}
		})
	}
}
