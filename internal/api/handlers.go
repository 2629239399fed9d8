package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
	"github.com/hackgods/healthcare-appointment-registry/internal/metrics"
)

// observeFunc reports the outcome of a registry operation.
type observeFunc func(operation string, err error)

func newObserver(m *metrics.Metrics) observeFunc {
	if m == nil {
		return func(string, error) {}
	}
	return func(operation string, err error) {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
			if kind := appointment.KindOf(err); kind != "" {
				result = string(kind)
			}
		}
		m.RecordOperation(operation, result)
	}
}

func pathID(r *http.Request, invalid error) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", invalid, raw)
	}
	return id, nil
}

func listDoctorsHandler(dir *appointment.Directory, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		criteria := appointment.FilterCriteria{
			Specialty:   q.Get("specialty"),
			Gender:      q.Get("gender"),
			ModeOfVisit: q.Get("mode"),
			Language:    q.Get("language"),
			Illness:     q.Get("illness"),
		}

		if criteria.IsEmpty() {
			observe("list_doctors", nil)
			writeJSON(w, http.StatusOK, DoctorsResponse{Doctors: dir.List()})
			return
		}

		observe("filter_doctors", nil)
		writeJSON(w, http.StatusOK, DoctorsResponse{Doctors: dir.Filter(criteria)})
	}
}

func getDoctorHandler(dir *appointment.Directory, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidDoctorID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		doc, err := dir.FindByID(id)
		observe("get_doctor", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func doctorReviewsHandler(dir *appointment.Directory, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidDoctorID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		reviews, err := dir.Reviews(id)
		observe("doctor_reviews", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ReviewsResponse{DoctorID: id, Reviews: reviews})
	}
}

func checkInsuranceHandler(dir *appointment.Directory, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidDoctorID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		provider := r.URL.Query().Get("provider")
		if provider == "" {
			writeError(w, http.StatusBadRequest, string(appointment.KindInvalidInput), "provider is required")
			return
		}

		res, err := dir.CheckInsurance(id, provider)
		observe("check_insurance", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, InsuranceResponse{
			DoctorID:   res.DoctorID,
			DoctorName: res.DoctorName,
			Provider:   res.Provider,
			Accepted:   res.Accepted,
			Message:    res.Message(),
		})
	}
}

func availabilityHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidDoctorID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		if !svc.Directory().Exists(id) {
			writeRegistryError(w, fmt.Errorf("%w: id %d", appointment.ErrDoctorNotFound, id))
			return
		}

		q := r.URL.Query()
		date, at := q.Get("date"), q.Get("time")
		if date == "" || at == "" {
			writeError(w, http.StatusBadRequest, string(appointment.KindInvalidInput), "date and time are required")
			return
		}

		available := svc.IsAvailable(id, date, at)
		observe("is_available", nil)
		writeJSON(w, http.StatusOK, AvailabilityResponse{
			DoctorID:  id,
			Date:      date,
			Time:      at,
			Available: available,
		})
	}
}

func doctorAppointmentsHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidDoctorID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		appts, err := svc.ByDoctor(id)
		observe("by_doctor", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AppointmentsResponse{Appointments: appts})
	}
}

func bookAppointmentHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Book(r.Context(), req.toBooking())
		observe("book", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AppointmentResponse{
			Appointment: appt,
			Message:     appointment.BookingConfirmation(appt),
		})
	}
}

func patientAppointmentsHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.ByPatient(r.URL.Query().Get("patient"))
		observe("by_patient", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AppointmentsResponse{Appointments: appts})
	}
}

func getAppointmentHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidAppointmentID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		appt, err := svc.Get(id)
		observe("get_appointment", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidAppointmentID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		removed, err := svc.Cancel(r.Context(), id)
		observe("cancel", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AppointmentResponse{
			Appointment: removed,
			Message:     appointment.CancellationConfirmation(removed),
		})
	}
}

func rescheduleAppointmentHandler(svc *appointment.Service, observe observeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, appointment.ErrInvalidAppointmentID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.Reschedule(r.Context(), id, req.Date, req.Time)
		observe("reschedule", err)
		if err != nil {
			writeRegistryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AppointmentResponse{
			Appointment: updated,
			Message:     appointment.RescheduleConfirmation(updated),
		})
	}
}
