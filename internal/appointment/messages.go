package appointment

import "fmt"

// Confirmation texts shown to patients by the demo and the HTTP API.

func BookingConfirmation(a Appointment) string {
	return fmt.Sprintf("Appointment booked for %s with %s on %s at %s.", a.PatientName, a.DoctorName, a.Date, a.Time)
}

func CancellationConfirmation(a Appointment) string {
	return fmt.Sprintf("Cancelled appointment with %s for %s.", a.DoctorName, a.PatientName)
}

func RescheduleConfirmation(a Appointment) string {
	return fmt.Sprintf("Appointment rescheduled to %s at %s.", a.Date, a.Time)
}

func (c InsuranceCheck) Message() string {
	if c.Accepted {
		return fmt.Sprintf("Doctor %s accepts %s.", c.DoctorName, c.Provider)
	}
	return fmt.Sprintf("Doctor %s is out-of-network for %s. You may have a higher copay or be responsible for the full cost of your visit.", c.DoctorName, c.Provider)
}
