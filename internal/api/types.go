package api

import "github.com/hackgods/healthcare-appointment-registry/internal/appointment"

type BookAppointmentRequest struct {
	PatientName             string  `json:"patientName"`
	DoctorID                int     `json:"doctorId"`
	Date                    string  `json:"date"`
	Time                    string  `json:"time"`
	IsNewPatient            *bool   `json:"isNewPatient"`
	IsBookingForSomeoneElse bool    `json:"isBookingForSomeoneElse"`
	Location                string  `json:"location"`
	InsuranceProvider       *string `json:"insuranceProvider"`
	MemberID                *string `json:"memberId"`
	Note                    *string `json:"note"`
	ModeOfVisit             string  `json:"modeOfVisit"`
}

func (r BookAppointmentRequest) toBooking() appointment.BookingRequest {
	return appointment.BookingRequest{
		PatientName:             r.PatientName,
		DoctorID:                r.DoctorID,
		Date:                    r.Date,
		Time:                    r.Time,
		IsNewPatient:            r.IsNewPatient,
		IsBookingForSomeoneElse: r.IsBookingForSomeoneElse,
		Location:                r.Location,
		InsuranceProvider:       r.InsuranceProvider,
		MemberID:                r.MemberID,
		Note:                    r.Note,
		ModeOfVisit:             r.ModeOfVisit,
	}
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type AppointmentResponse struct {
	Appointment appointment.Appointment `json:"appointment"`
	Message     string                  `json:"message"`
}

type AppointmentsResponse struct {
	Appointments []appointment.Appointment `json:"appointments"`
}

type DoctorsResponse struct {
	Doctors []appointment.Doctor `json:"doctors"`
}

type ReviewsResponse struct {
	DoctorID int                  `json:"doctorId"`
	Reviews  []appointment.Review `json:"reviews"`
}

type AvailabilityResponse struct {
	DoctorID  int    `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type InsuranceResponse struct {
	DoctorID   int    `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Provider   string `json:"provider"`
	Accepted   bool   `json:"accepted"`
	Message    string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
