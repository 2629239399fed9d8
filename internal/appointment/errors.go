package appointment

import "errors"

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindConflict        Kind = "conflict"
	KindPolicyViolation Kind = "policy_violation"
)

// Error is a rejected registry operation. Sentinels below are *Error values
// and are usually wrapped with %w to add the offending id or slot.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrDoctorNotFound      = newError(KindNotFound, "doctor not found")
	ErrAppointmentNotFound = newError(KindNotFound, "appointment not found")

	ErrInvalidDoctorID         = newError(KindInvalidInput, "invalid doctor id")
	ErrDuplicateDoctorID       = newError(KindInvalidInput, "duplicate doctor id")
	ErrInvalidAppointmentID    = newError(KindInvalidInput, "invalid appointment id")
	ErrNewPatientUnspecified   = newError(KindInvalidInput, "must specify new-patient status")
	ErrPatientNameRequired     = newError(KindInvalidInput, "invalid or missing patient name")
	ErrDateRequired            = newError(KindInvalidInput, "invalid or missing date")
	ErrTimeRequired            = newError(KindInvalidInput, "invalid or missing time")
	ErrVideoLocationIneligible = newError(KindPolicyViolation, "location not eligible for video visit")

	ErrSlotTaken = newError(KindConflict, "doctor already booked at that slot")
)

// KindOf reports the kind of a registry error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
