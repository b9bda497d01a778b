package moderation

// DenyReason explains why an authorization check failed.
type DenyReason string

const (
	DenySelfTarget       DenyReason = "self_target"
	DenyInsufficientRank DenyReason = "insufficient_rank"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// MayAct decides whether an actor may take a moderation action against a
// target. Ranks are each party's highest role position in the guild. An
// actor can never act on themselves, and can only act on a member who is
// strictly junior: equal rank is a peer and is denied. Non-members carry no
// rank, so the rank comparison only applies when the target is a member.
func MayAct(actorRank int, actorID string, targetRank int, targetID string, targetIsMember bool) Decision {
	if actorID == targetID {
		return deny(DenySelfTarget)
	}
	if targetIsMember && actorRank <= targetRank {
		return deny(DenyInsufficientRank)
	}
	return Allow
}
