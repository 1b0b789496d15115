package assistant

import "fmt"

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

// Reason names the degrade path a component took
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonUpstreamError     Reason = "upstream_error"
	ReasonPartialFailure    Reason = "partial_failure"
	ReasonEmptyInput        Reason = "empty_input"
)

// Outcome tells the caller whether a component produced its real result or
// fell back to a default value, and why.
type Outcome struct {
	Status Status
	Reason Reason
	Err    error
}

func succeeded() Outcome { return Outcome{Status: StatusOK} }

func degraded(reason Reason, err error) Outcome {
	return Outcome{Status: StatusDegraded, Reason: reason, Err: err}
}

func (o Outcome) OK() bool { return o.Status == StatusOK }

func (o Outcome) Degraded() bool { return o.Status == StatusDegraded }

func (o Outcome) String() string {
	if o.OK() {
		return string(StatusOK)
	}
	if o.Err != nil {
		return fmt.Sprintf("%s (%s): %v", o.Status, o.Reason, o.Err)
	}
	return fmt.Sprintf("%s (%s)", o.Status, o.Reason)
}
