package store

import "github.com/vestatus/gomail/internal/service"

// State is the submission state shared by a page session.
// An empty MessageID means no email has been accepted yet.
type State struct {
	Errors            service.FieldErrors `json:"errors"`
	MessageID         string              `json:"messageId,omitempty"`
	IsSubmittingEmail bool                `json:"isSubmittingEmail"`
	ShowSuccess       bool                `json:"showSuccess"`
}

// Reduce returns the state that follows action. It never mutates state.
//
// An error clears ShowSuccess, so a failed submission never shows the success banner.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case RequestAction:
		state.IsSubmittingEmail = true
		state.Errors = nil
		state.ShowSuccess = false
	case ResponseAction:
		state.IsSubmittingEmail = false
		state.Errors = nil
		state.MessageID = a.MessageID
		state.ShowSuccess = true
	case ErrorAction:
		state.IsSubmittingEmail = false
		state.Errors = copyErrors(a.Errors)
		state.ShowSuccess = false
	}

	return state
}

func copyErrors(errs service.FieldErrors) service.FieldErrors {
	if errs == nil {
		return nil
	}

	out := make(service.FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}

	return out
}
