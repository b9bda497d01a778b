package moderation

import (
	"errors"
	"fmt"
)

// Terminal validation outcomes of an action pipeline. These are definitive
// answers for the caller, never retried.
var (
	// ErrTargetInvalid means the supplied target reference does not parse or
	// does not resolve to any known account.
	ErrTargetInvalid = errors.New("invalid target user")
	// ErrTargetAbsent means the target resolved but is not a guild member,
	// and the action needs a reachable member.
	ErrTargetAbsent = errors.New("target user is not in this guild")
	// ErrConfigMissing means the guild has no mute role configured.
	ErrConfigMissing = errors.New("no mute role configured for this guild")
	// ErrNotBanned is the unban outcome when the platform has no ban on record.
	ErrNotBanned = errors.New("user is not banned")
)

// UnauthorizedError reports an authorization denial with its reason.
type UnauthorizedError struct {
	Reason DenyReason
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: " + string(e.Reason)
}

// Enforcement failure kinds, mirroring the platform error surface.
const (
	EnforceForbidden = "forbidden"
	EnforceNotFound  = "not_found"
	EnforceTransport = "transport"
)

// EnforcementError reports that the platform effect failed after the
// infraction was already durably recorded. The caller can tell "recorded but
// not enforced" apart from "nothing happened".
type EnforcementError struct {
	Kind string
	Err  error
}

func (e *EnforcementError) Error() string {
	return fmt.Sprintf("enforcement failed (%s): %v", e.Kind, e.Err)
}

func (e *EnforcementError) Unwrap() error {
	return e.Err
}
