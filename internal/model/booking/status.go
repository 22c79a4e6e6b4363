package booking

// State is the outcome shown in the booking form's status region.
type State string

const (
	StateSuccess State = "success"
	StateError   State = "error"
	StateInvalid State = "invalid"
	StateBusy    State = "busy"
)

const (
	MessageSuccess = "Thank you, we will get back to you."
	MessageError   = "Submission failed. Please try again."
	MessageInvalid = "Please fill in all required fields."
	MessageBusy    = "Your request is already being sent."
)

// Status is the inline status rendered after a submission attempt.
type Status struct {
	State   State    `json:"state"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// OK reports whether the submission was accepted by the backend.
func (s Status) OK() bool { return s.State == StateSuccess }
