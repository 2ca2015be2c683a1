package domain

import "time"

// AuthAction names the flow an AuthEvent was recorded for.
type AuthAction string

const (
	ActionRegister AuthAction = "register"
	ActionLogin    AuthAction = "login"
	ActionProfile  AuthAction = "profile"
)

// AuthOutcome is the result of a flow as seen by operators.
type AuthOutcome string

const (
	OutcomeSuccess AuthOutcome = "success"
	OutcomeFailure AuthOutcome = "failure"
)

// Failure reasons recorded on audit events. They are internal only; clients
// see the collapsed error kinds.
const (
	ReasonDuplicate      = "duplicate_email"
	ReasonUnknownAccount = "unknown_account"
	ReasonBadPassword    = "bad_password"
	ReasonInvalidInput   = "invalid_input"
	ReasonNotFound       = "not_found"
	ReasonInternal       = "internal_error"
)

// AuthEvent records the outcome of one authentication flow.
type AuthEvent struct {
	Action  AuthAction
	Email   string
	Outcome AuthOutcome
	Reason  string // empty on success
	At      time.Time
}
