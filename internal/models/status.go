package models

type StatusType string

const (
	StatusLoading StatusType = "loading"
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// Status is the message shown to the shopper above the payment form.
type Status struct {
	Type    StatusType `json:"type"`
	Message string     `json:"message"`
}

func Loading(msg string) Status { return Status{Type: StatusLoading, Message: msg} }

func Success(msg string) Status { return Status{Type: StatusSuccess, Message: msg} }

func Error(msg string) Status { return Status{Type: StatusError, Message: msg} }

// FormState is a state of the payment form submission machine.
type FormState string

const (
	StateIdle               FormState = "IDLE"
	StateAwaitingValidation FormState = "AWAITING_VALIDATION"
	StateReadyToSubmit      FormState = "READY_TO_SUBMIT"
	StateSubmitting         FormState = "SUBMITTING"
	StateAwaitingToken      FormState = "AWAITING_TOKEN"
	StateCreatingOrder      FormState = "CREATING_ORDER"
	StateSucceeded          FormState = "SUCCEEDED"
	StateFailed             FormState = "FAILED"
)

// Processing reports whether a submission is in flight in this state.
func (s FormState) Processing() bool {
	switch s {
	case StateSubmitting, StateAwaitingToken, StateCreatingOrder:
		return true
	}
	return false
}
