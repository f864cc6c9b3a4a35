package gateway

import "net/http"

// User-facing messages produced by MessageFor.
const (
	MsgNetwork        = "Network error. Please check your connection and try again."
	MsgInvalidInput   = "Please check your input and try again."
	MsgSessionExpired = "Your session has expired. Please restart the app."
	MsgServer         = "Server error. Please try again later."
	MsgGeneric        = "Something went wrong. Please try again."
)

// MessageFor maps an error returned by the gateway to user-facing text. It
// is total and never returns an empty string; errors that are not *Error
// get the generic text.
func MessageFor(err error) string {
	ge, ok := AsError(err)
	if !ok || ge == nil {
		return MsgGeneric
	}

	switch ge.Status {
	case 0:
		return MsgNetwork
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if ge.HasServerMessage() {
			return ge.Message
		}
		return MsgInvalidInput
	case http.StatusUnauthorized:
		return MsgSessionExpired
	case http.StatusInternalServerError:
		return MsgServer
	default:
		if ge.HasServerMessage() {
			return ge.Message
		}
		return MsgGeneric
	}
}
