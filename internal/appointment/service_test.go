package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-appointment-registry/internal/config"
)

func TestBook_AssignsSequentialIDsAndSnapshotsDoctorName(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	alice, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, alice.ID)
	assert.Equal(t, "Dr. John Smith", alice.DoctorName)
	assert.Equal(t, ModeVideo, alice.ModeOfVisit, "mode defaults to video")
	assert.True(t, alice.IsNewPatient)

	bob, err := svc.Book(ctx, BookingRequest{
		PatientName:             "Bob",
		DoctorID:                2,
		Date:                    "2025-05-11",
		Time:                    "14:00",
		IsNewPatient:            boolPtr(false),
		IsBookingForSomeoneElse: true,
		Location:                "Colorado",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, bob.ID)
	assert.False(t, bob.IsNewPatient)
	assert.True(t, bob.IsBookingForSomeoneElse)
	assert.Equal(t, 2, svc.Count())
}

func TestBook_KeepsOptionalInsuranceFields(t *testing.T) {
	svc := newTestService(t, nil)

	provider, member, note := "UnitedHealthcare - Options PPO", "123456", "Mild fever symptoms"
	req := aliceRequest()
	req.InsuranceProvider = &provider
	req.MemberID = &member
	req.Note = &note

	appt, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, appt.InsuranceProvider)
	assert.Equal(t, provider, *appt.InsuranceProvider)
	assert.Equal(t, member, *appt.MemberID)
	assert.Equal(t, note, *appt.Note)

	plain, err := svc.Book(context.Background(), BookingRequest{
		PatientName: "Zed", DoctorID: 1, Date: "2025-06-01", Time: "09:00",
		IsNewPatient: boolPtr(true), Location: "Colorado",
	})
	require.NoError(t, err)
	assert.Nil(t, plain.InsuranceProvider)
	assert.Nil(t, plain.MemberID)
	assert.Nil(t, plain.Note)
}

func TestStoredRecordsAreNotSharedWithCallers(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	note, provider := "Mild fever symptoms", "Cigna"
	req := aliceRequest()
	req.Note = &note
	req.InsuranceProvider = &provider

	booked, err := svc.Book(ctx, req)
	require.NoError(t, err)

	note = "edited after booking"
	provider = "Aetna"
	*booked.Note = "edited through the returned record"

	got, err := svc.Get(booked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Note)
	assert.Equal(t, "Mild fever symptoms", *got.Note)
	assert.Equal(t, "Cigna", *got.InsuranceProvider)

	list, err := svc.ByPatient("Alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	*list[0].Note = "edited through a query result"

	list, err = svc.ByDoctor(1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mild fever symptoms", *list[0].Note)
	*list[0].InsuranceProvider = "edited through a doctor query"

	moved, err := svc.Reschedule(ctx, booked.ID, "2025-05-12", "15:00")
	require.NoError(t, err)
	*moved.Note = "edited through a reschedule result"

	got, err = svc.Get(booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mild fever symptoms", *got.Note)
	assert.Equal(t, "Cigna", *got.InsuranceProvider)
}

func TestBook_SlotConflict(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)

	carol := aliceRequest()
	carol.PatientName = "Carol"
	_, err = svc.Book(ctx, carol)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, 1, svc.Count())

	// same slot with another doctor is fine
	carol.DoctorID = 2
	_, err = svc.Book(ctx, carol)
	assert.NoError(t, err)
}

func TestBook_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingRequest)
		want   error
		kind   Kind
	}{
		{"unknown doctor", func(r *BookingRequest) { r.DoctorID = 99 }, ErrDoctorNotFound, KindNotFound},
		{"video outside eligible state", func(r *BookingRequest) { r.Location = "Texas" }, ErrVideoLocationIneligible, KindPolicyViolation},
		{"explicit video outside eligible state", func(r *BookingRequest) {
			r.ModeOfVisit = ModeVideo
			r.Location = ""
		}, ErrVideoLocationIneligible, KindPolicyViolation},
		{"new patient unspecified", func(r *BookingRequest) { r.IsNewPatient = nil }, ErrNewPatientUnspecified, KindInvalidInput},
		{"blank patient name", func(r *BookingRequest) { r.PatientName = "  " }, ErrPatientNameRequired, KindInvalidInput},
		{"blank date", func(r *BookingRequest) { r.Date = "" }, ErrDateRequired, KindInvalidInput},
		{"blank time", func(r *BookingRequest) { r.Time = "" }, ErrTimeRequired, KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)
			req := aliceRequest()
			tt.mutate(&req)

			_, err := svc.Book(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Zero(t, svc.Count())
		})
	}
}

func TestBook_InPersonSkipsLocationRule(t *testing.T) {
	svc := newTestService(t, nil)

	req := aliceRequest()
	req.ModeOfVisit = ModeInPerson
	req.Location = "Texas"

	appt, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ModeInPerson, appt.ModeOfVisit)
}

func TestBook_ValidationOrder(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	// doctor lookup wins over everything else
	_, err := svc.Book(ctx, BookingRequest{DoctorID: 99, Location: "Texas"})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	// location rule runs before new-patient status
	_, err = svc.Book(ctx, BookingRequest{DoctorID: 1, Location: "Texas"})
	assert.ErrorIs(t, err, ErrVideoLocationIneligible)

	// new-patient status runs before the slot check
	_, err = svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	dup := aliceRequest()
	dup.IsNewPatient = nil
	_, err = svc.Book(ctx, dup)
	assert.ErrorIs(t, err, ErrNewPatientUnspecified)
}

func TestBook_ConfiguredVideoLocation(t *testing.T) {
	dir, err := NewDirectory(testDoctors())
	require.NoError(t, err)
	svc := NewService(dir, NewMemoryRepository(), nil, config.Config{VideoEligibleLocation: "Texas"}, zerolog.Nop())

	req := aliceRequest()
	req.Location = "Texas"
	_, err = svc.Book(context.Background(), req)
	require.NoError(t, err)

	req.Location = "Colorado"
	req.Time = "11:00"
	_, err = svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrVideoLocationIneligible)
}

func TestIDsAreNeverReused(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	var ids []int
	for i := 0; i < 3; i++ {
		req := aliceRequest()
		req.Time = fmt.Sprintf("%02d:00", 9+i)
		appt, err := svc.Book(ctx, req)
		require.NoError(t, err)
		ids = append(ids, appt.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)

	_, err := svc.Cancel(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, 3)
	require.NoError(t, err)

	req := aliceRequest()
	req.Time = "15:00"
	next, err := svc.Book(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)
}

func TestCancel(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	bob := aliceRequest()
	bob.PatientName = "Bob"
	booked, err := svc.Book(ctx, bob)
	require.NoError(t, err)

	removed, err := svc.Cancel(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, booked, removed)
	assert.Equal(t, "Cancelled appointment with Dr. John Smith for Bob.", CancellationConfirmation(removed))

	list, err := svc.ByPatient("Bob")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = svc.ByDoctor(1)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, svc.IsAvailable(1, bob.Date, bob.Time))
	assert.Zero(t, svc.Count())

	_, err = svc.Cancel(ctx, booked.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.Cancel(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidAppointmentID)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	carol := aliceRequest()
	carol.PatientName = "Carol"
	again, err := svc.Book(ctx, carol)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestReschedule(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	booked, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)

	updated, err := svc.Reschedule(ctx, booked.ID, "2025-05-12", "15:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-12", updated.Date)
	assert.Equal(t, "15:00", updated.Time)
	assert.Equal(t, "Appointment rescheduled to 2025-05-12 at 15:00.", RescheduleConfirmation(updated))

	// everything but date and time is untouched
	want := booked
	want.Date, want.Time = "2025-05-12", "15:00"
	assert.Equal(t, want, updated)

	assert.True(t, svc.IsAvailable(1, booked.Date, booked.Time))
	assert.False(t, svc.IsAvailable(1, "2025-05-12", "15:00"))

	got, err := svc.Get(booked.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestReschedule_ToOwnSlotSucceeds(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	booked, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)

	updated, err := svc.Reschedule(ctx, booked.ID, booked.Date, booked.Time)
	require.NoError(t, err)
	assert.Equal(t, booked, updated)
	assert.False(t, svc.IsAvailable(1, booked.Date, booked.Time))
}

func TestReschedule_Rejections(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	alice, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	carol := aliceRequest()
	carol.PatientName = "Carol"
	carol.Time = "11:00"
	_, err = svc.Book(ctx, carol)
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, alice.ID, carol.Date, carol.Time)
	assert.ErrorIs(t, err, ErrSlotTaken)

	unchanged, err := svc.Get(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, unchanged)

	_, err = svc.Reschedule(ctx, 42, "2025-05-12", "15:00")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.Reschedule(ctx, -1, "2025-05-12", "15:00")
	assert.ErrorIs(t, err, ErrInvalidAppointmentID)

	_, err = svc.Reschedule(ctx, alice.ID, "", "15:00")
	assert.ErrorIs(t, err, ErrDateRequired)
	_, err = svc.Reschedule(ctx, alice.ID, "   ", "15:00")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = svc.Reschedule(ctx, alice.ID, "2025-05-12", " ")
	assert.ErrorIs(t, err, ErrTimeRequired)
}

func TestQueries(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	second := aliceRequest()
	second.DoctorID = 2
	second.Date = "2025-05-14"
	_, err = svc.Book(ctx, second)
	require.NoError(t, err)

	list, err := svc.ByPatient("Alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 2, list[1].ID)

	list, err = svc.ByPatient("alice")
	require.NoError(t, err)
	assert.Empty(t, list, "patient match is exact")

	_, err = svc.ByPatient("")
	assert.ErrorIs(t, err, ErrPatientNameRequired)
	_, err = svc.ByPatient(" \t")
	assert.ErrorIs(t, err, ErrPatientNameRequired, "whitespace-only names are blank")

	list, err = svc.ByDoctor(2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr. Deborah Presken, MD", list[0].DoctorName)

	_, err = svc.ByDoctor(99)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	_, err = svc.ByDoctor(0)
	assert.ErrorIs(t, err, ErrInvalidDoctorID)

	_, err = svc.Get(0)
	assert.ErrorIs(t, err, ErrInvalidAppointmentID)
	_, err = svc.Get(77)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestIsAvailable(t *testing.T) {
	svc := newTestService(t, nil)

	assert.True(t, svc.IsAvailable(1, "2025-05-10", "10:00"))
	assert.True(t, svc.IsAvailable(99, "2025-05-10", "10:00"), "unknown doctor has no bookings")

	_, err := svc.Book(context.Background(), aliceRequest())
	require.NoError(t, err)

	assert.False(t, svc.IsAvailable(1, "2025-05-10", "10:00"))
	assert.True(t, svc.IsAvailable(1, "2025-05-10", "10:00 AM"), "slot strings compare exactly")
	assert.True(t, svc.IsAvailable(1, "2025-05-12", "11:00"))
}

func TestEventsAreRecorded(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, sink)
	ctx := context.Background()

	appt, err := svc.Book(ctx, aliceRequest())
	require.NoError(t, err)
	_, err = svc.Reschedule(ctx, appt.ID, "2025-05-12", "15:00")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)

	// rejected operations emit nothing
	_, err = svc.Cancel(ctx, appt.ID)
	require.Error(t, err)

	assert.Equal(t, []string{EventAppointmentBooked, EventAppointmentRescheduled, EventAppointmentCancelled}, sink.types())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(sink.events[1].Payload, &payload))
	assert.Equal(t, "2025-05-10", payload["from_date"])
	assert.Equal(t, "2025-05-12", payload["to_date"])
	for _, ev := range sink.events {
		assert.Equal(t, appt.ID, ev.AppointmentID)
		assert.False(t, ev.CreatedAt.IsZero())
	}
}

func TestFailingSinkDoesNotRejectOperation(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	svc := newTestService(t, MultiSink{sink, &recordingSink{}})

	appt, err := svc.Book(context.Background(), aliceRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, appt.ID)
	assert.Len(t, sink.events, 1)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	ok := &recordingSink{}
	m := MultiSink{&recordingSink{err: errA}, ok, &recordingSink{err: errB}}

	err := m.Record(context.Background(), EventLog{EventType: EventAppointmentBooked})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, ok.events, 1)

	assert.NoError(t, MultiSink{ok}.Record(context.Background(), EventLog{}))
}

func TestConcurrentBookingOfSameSlot(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := aliceRequest()
			req.PatientName = fmt.Sprintf("patient-%d", i)
			_, err := svc.Book(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotTaken):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, svc.Count())
}

func TestConcurrentBookingAssignsDistinctIDs(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	const workers = 20
	ids := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := aliceRequest()
			req.Time = fmt.Sprintf("slot-%d", i)
			appt, err := svc.Book(ctx, req)
			if err == nil {
				ids <- appt.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("%w: id 5", ErrAppointmentNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Contains(t, wrapped.Error(), "id 5")
}
