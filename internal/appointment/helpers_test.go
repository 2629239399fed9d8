package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-appointment-registry/internal/config"
)

func testDoctors() []Doctor {
	return []Doctor{
		{
			ID:                1,
			Name:              "Dr. John Smith",
			Specialty:         "Family Nurse Practitioner",
			Gender:            "Male",
			ModesOfVisit:      []string{ModeVideo, ModeInPerson},
			LanguagesSpoken:   []string{"English", "Spanish"},
			IllnessesTreated:  []string{"Heart Disease", "High Blood Pressure"},
			InsuranceAccepted: []string{"Aetna", "BlueCross BlueShield", "Cigna"},
			Reviews: []Review{
				{Rating: 4.5, Comment: "Very caring and thorough doctor.", Date: "April 10, 2025", PatientName: "Emily R.", Verification: "Verified patient", ModeOfVisit: "In-person visit"},
				{Rating: 3.5, Comment: "Good, but a bit rushed."},
			},
			Location: "123 Main St, Colorado Springs, CO",
		},
		{
			ID:                2,
			Name:              "Dr. Deborah Presken, MD",
			Specialty:         "Family Physician",
			Gender:            "Female",
			ModesOfVisit:      []string{ModeVideo},
			LanguagesSpoken:   []string{"English", "Chinese"},
			IllnessesTreated:  []string{"Eczema", "Acne"},
			InsuranceAccepted: []string{"UnitedHealthcare", "Cigna", "Medicare"},
			Reviews: []Review{
				{Rating: 7, Comment: "Off the usual scale.", Date: "May 6, 2025"},
			},
			Location: "456 Elm St, Boulder, CO",
		},
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []EventLog
	err    error
}

func (s *recordingSink) Record(_ context.Context, ev EventLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.EventType)
	}
	return out
}

func newTestService(t *testing.T, sink EventSink) *Service {
	t.Helper()
	dir, err := NewDirectory(testDoctors())
	require.NoError(t, err)
	return NewService(dir, NewMemoryRepository(), sink, config.Config{}, zerolog.Nop())
}

func boolPtr(b bool) *bool { return &b }

func aliceRequest() BookingRequest {
	return BookingRequest{
		PatientName:  "Alice",
		DoctorID:     1,
		Date:         "2025-05-10",
		Time:         "10:00",
		IsNewPatient: boolPtr(true),
		Location:     "Colorado",
	}
}
