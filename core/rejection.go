package core

// Rejection is a request-scoped refusal carrying an HTTP-status-valued
// category plus a caller-facing reason. Security checkers and the
// attendance state machine both produce it; the web layer maps it straight
// onto the response. Anything else that goes wrong stays a plain error and
// surfaces as a generic server failure.
type Rejection struct {
	Status  int
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func Reject(status int, message string) *Rejection {
	return &Rejection{Status: status, Message: message}
}
