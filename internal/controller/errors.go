package controller

// ErrorKind is the closed set of failure tags the controller logs and
// reports. The validation-reset and unhandled-failure paths put a
// descriptive message in Result.Error instead of one of these tags.
// These are string enum values, not exception types: the controller
// never propagates Go errors across its own boundary.
type ErrorKind string

const (
	ErrLockUnavailable ErrorKind = "lock_unavailable"
	ErrStateInvalid    ErrorKind = "state_invalid"
	ErrDuplicateTurn   ErrorKind = "duplicate_turn"
	ErrPatchConflict   ErrorKind = "patch_conflict"
	ErrAgentFailure    ErrorKind = "agent_failure"
	ErrRouterFailure   ErrorKind = "router_failure"
	ErrStoreFailure    ErrorKind = "store_failure"
	ErrTurnUnhandled   ErrorKind = "turn_unhandled"
)
