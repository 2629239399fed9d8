package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-appointment-registry/internal/config"
)

// Service is the appointment registry. Every operation runs under one
// registry-wide lock, so availability checks and the writes that follow them
// are atomic.
type Service struct {
	mu   sync.RWMutex
	dir  *Directory
	repo Repository
	sink EventSink
	log  zerolog.Logger

	videoLocation string
}

func NewService(dir *Directory, repo Repository, sink EventSink, cfg config.Config, log zerolog.Logger) *Service {
	if sink == nil {
		sink = nopSink{}
	}
	loc := cfg.VideoEligibleLocation
	if loc == "" {
		loc = config.DefaultVideoEligibleLocation
	}
	return &Service{
		dir:           dir,
		repo:          repo,
		sink:          sink,
		log:           log.With().Str("component", "registry").Logger(),
		videoLocation: loc,
	}
}

func (s *Service) Directory() *Directory {
	return s.dir
}

// IsAvailable reports whether no live appointment holds the slot.
func (s *Service) IsAvailable(doctorID int, date, hour string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotFree(doctorID, date, hour, 0)
}

// slotFree is the conflict rule shared by Book and Reschedule. exceptID lets
// an appointment ignore itself; 0 matches no appointment.
func (s *Service) slotFree(doctorID int, date, hour string, exceptID int) bool {
	holder, taken := s.repo.SlotHolder(doctorID, date, hour)
	return !taken || holder == exceptID
}

// Book validates req and stores a new appointment. Checks run in a fixed
// order and the first failure is returned.
func (s *Service) Book(ctx context.Context, req BookingRequest) (Appointment, error) {
	appt, err := s.book(req)
	if err != nil {
		return Appointment{}, err
	}

	s.logEvent(ctx, appt.ID, EventAppointmentBooked, map[string]any{
		"patient_name": appt.PatientName,
		"doctor_id":    appt.DoctorID,
		"date":         appt.Date,
		"time":         appt.Time,
		"mode":         appt.ModeOfVisit,
	})

	return appt, nil
}

func (s *Service) book(req BookingRequest) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, err := s.dir.FindByID(req.DoctorID)
	if err != nil {
		return Appointment{}, err
	}

	mode := req.ModeOfVisit
	if mode == "" {
		mode = ModeVideo
	}
	if mode == ModeVideo && req.Location != s.videoLocation {
		return Appointment{}, fmt.Errorf("%w: must be located in %s, got %q", ErrVideoLocationIneligible, s.videoLocation, req.Location)
	}

	if req.IsNewPatient == nil {
		return Appointment{}, ErrNewPatientUnspecified
	}

	if strings.TrimSpace(req.PatientName) == "" {
		return Appointment{}, ErrPatientNameRequired
	}
	if strings.TrimSpace(req.Date) == "" {
		return Appointment{}, ErrDateRequired
	}
	if strings.TrimSpace(req.Time) == "" {
		return Appointment{}, ErrTimeRequired
	}

	if !s.slotFree(doctor.ID, req.Date, req.Time, 0) {
		return Appointment{}, fmt.Errorf("%w: %s at %s", ErrSlotTaken, req.Date, req.Time)
	}

	appt := Appointment{
		ID:                      s.repo.NextID(),
		PatientName:             req.PatientName,
		DoctorID:                doctor.ID,
		DoctorName:              doctor.Name,
		Date:                    req.Date,
		Time:                    req.Time,
		IsNewPatient:            *req.IsNewPatient,
		IsBookingForSomeoneElse: req.IsBookingForSomeoneElse,
		Location:                req.Location,
		InsuranceProvider:       cloneString(req.InsuranceProvider),
		MemberID:                cloneString(req.MemberID),
		Note:                    cloneString(req.Note),
		ModeOfVisit:             mode,
	}
	s.repo.Insert(appt)

	return appt, nil
}

// Cancel removes the appointment permanently and returns it as it was.
func (s *Service) Cancel(ctx context.Context, id int) (Appointment, error) {
	if id <= 0 {
		return Appointment{}, fmt.Errorf("%w: %d", ErrInvalidAppointmentID, id)
	}

	s.mu.Lock()
	removed, err := s.repo.Delete(id)
	s.mu.Unlock()
	if err != nil {
		return Appointment{}, err
	}

	s.logEvent(ctx, removed.ID, EventAppointmentCancelled, map[string]any{
		"patient_name": removed.PatientName,
		"doctor_id":    removed.DoctorID,
		"date":         removed.Date,
		"time":         removed.Time,
	})

	return removed, nil
}

// Reschedule moves the appointment to a new date and time for the same
// doctor. Moving onto its own current slot succeeds.
func (s *Service) Reschedule(ctx context.Context, id int, newDate, newTime string) (Appointment, error) {
	if id <= 0 {
		return Appointment{}, fmt.Errorf("%w: %d", ErrInvalidAppointmentID, id)
	}
	if strings.TrimSpace(newDate) == "" {
		return Appointment{}, ErrDateRequired
	}
	if strings.TrimSpace(newTime) == "" {
		return Appointment{}, ErrTimeRequired
	}

	current, updated, err := s.moveSlot(id, newDate, newTime)
	if err != nil {
		return Appointment{}, err
	}

	s.logEvent(ctx, updated.ID, EventAppointmentRescheduled, map[string]any{
		"doctor_id": updated.DoctorID,
		"from_date": current.Date,
		"from_time": current.Time,
		"to_date":   updated.Date,
		"to_time":   updated.Time,
	})

	return updated, nil
}

func (s *Service) moveSlot(id int, newDate, newTime string) (before, after Appointment, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err = s.repo.Get(id)
	if err != nil {
		return Appointment{}, Appointment{}, err
	}

	if !s.slotFree(before.DoctorID, newDate, newTime, before.ID) {
		return Appointment{}, Appointment{}, fmt.Errorf("%w: %s at %s", ErrSlotTaken, newDate, newTime)
	}

	after, err = s.repo.UpdateSlot(id, newDate, newTime)
	if err != nil {
		return Appointment{}, Appointment{}, err
	}
	return before, after, nil
}

func (s *Service) Get(id int) (Appointment, error) {
	if id <= 0 {
		return Appointment{}, fmt.Errorf("%w: %d", ErrInvalidAppointmentID, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Get(id)
}

// ByPatient lists live appointments whose patient name matches exactly.
func (s *Service) ByPatient(patientName string) ([]Appointment, error) {
	if strings.TrimSpace(patientName) == "" {
		return nil, ErrPatientNameRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.ListByPatient(patientName), nil
}

func (s *Service) ByDoctor(doctorID int) ([]Appointment, error) {
	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDoctorID, doctorID)
	}
	if !s.dir.Exists(doctorID) {
		return nil, fmt.Errorf("%w: id %d", ErrDoctorNotFound, doctorID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.ListByDoctor(doctorID), nil
}

// Count returns the number of live appointments.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Count()
}

func (s *Service) logEvent(ctx context.Context, appointmentID int, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	ev := EventLog{
		ID:            uuid.New(),
		EventType:     eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.sink.Record(ctx, ev); err != nil {
		s.log.Warn().Err(err).
			Str("event", eventType).
			Int("appointment_id", appointmentID).
			Msg("failed to record registry event")
	}
}
