package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
	"github.com/hackgods/healthcare-appointment-registry/internal/config"
	"github.com/hackgods/healthcare-appointment-registry/internal/logging"
	"github.com/hackgods/healthcare-appointment-registry/internal/seed"
)

// demo walks through a typical patient session against an in-process
// registry and prints what each operation returns.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New("demo", cfg.LogFormat, "warn")

	dir, err := appointment.NewDirectory(seed.SampleDoctors())
	if err != nil {
		log.Fatal().Err(err).Msg("directory build error")
	}
	svc := appointment.NewService(dir, appointment.NewMemoryRepository(), nil, cfg, log)
	ctx := context.Background()

	section("Available Doctors")
	printJSON(dir.List())

	section("Booking Appointments")
	printBooking(svc.Book(ctx, appointment.BookingRequest{
		PatientName:       "Alice",
		DoctorID:          1,
		Date:              "2025-05-10",
		Time:              "10:00 AM",
		IsNewPatient:      ptr(true),
		Location:          "Colorado",
		InsuranceProvider: ptr("UnitedHealthcare - Options PPO"),
		MemberID:          ptr("123456"),
		Note:              ptr("Mild fever symptoms"),
	}))
	printBooking(svc.Book(ctx, appointment.BookingRequest{
		PatientName:             "Bob",
		DoctorID:                2,
		Date:                    "2025-05-11",
		Time:                    "2:00 PM",
		IsNewPatient:            ptr(false),
		IsBookingForSomeoneElse: true,
		Location:                "Colorado",
	}))
	printBooking(svc.Book(ctx, appointment.BookingRequest{
		PatientName:  "Carol",
		DoctorID:     1,
		Date:         "2025-05-10",
		Time:         "10:00 AM",
		IsNewPatient: ptr(true),
		Location:     "Colorado",
	}))
	printBooking(svc.Book(ctx, appointment.BookingRequest{
		PatientName:  "Dave",
		DoctorID:     2,
		Date:         "2025-05-13",
		Time:         "9:00 AM",
		IsNewPatient: ptr(true),
		Location:     "Texas",
	}))

	section("Alice's Appointments")
	printList(svc.ByPatient("Alice"))

	section("Dr. Deborah Presken, MD's Appointments")
	printList(svc.ByDoctor(2))

	section("Canceling Appointment ID 2")
	if removed, err := svc.Cancel(ctx, 2); err != nil {
		fmt.Println(err)
	} else {
		fmt.Println(appointment.CancellationConfirmation(removed))
	}

	section("All Appointments for Bob After Cancellation")
	printList(svc.ByPatient("Bob"))

	section("Checking Availability (Dr. John Smith on 2025-05-10 at 10:00 AM)")
	fmt.Println(svc.IsAvailable(1, "2025-05-10", "10:00 AM"))
	section("Checking Availability (Dr. John Smith on 2025-05-12 at 11:00 AM)")
	fmt.Println(svc.IsAvailable(1, "2025-05-12", "11:00 AM"))

	section("Rescheduling Appointment ID 1 to 2025-05-12 at 3:00 PM")
	if updated, err := svc.Reschedule(ctx, 1, "2025-05-12", "3:00 PM"); err != nil {
		fmt.Println(err)
	} else {
		fmt.Println(appointment.RescheduleConfirmation(updated))
	}

	section("Updated Alice's Appointments")
	printList(svc.ByPatient("Alice"))

	section("Filtering Doctors")
	matches := dir.Filter(appointment.FilterCriteria{
		Specialty:   "Family Physician",
		Gender:      "Female",
		ModeOfVisit: "video",
		Language:    "Chinese",
		Illness:     "Eczema",
	})
	if len(matches) == 0 {
		fmt.Println("No doctors found matching the criteria.")
	} else {
		fmt.Println("Matching Doctors:")
		printJSON(matches)
	}

	section("Reviews for Dr. Deborah Presken")
	if reviews, err := dir.Reviews(2); err != nil {
		fmt.Println(err)
	} else {
		printJSON(reviews)
	}

	section("Insurance Check")
	for _, c := range []struct {
		doctorID int
		provider string
	}{
		{1, "Cigna"},
		{2, "UnitedHealthcare - W500 Emergent Wrap"},
	} {
		res, err := dir.CheckInsurance(c.doctorID, c.provider)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(res.Message())
	}
}

func section(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

func printBooking(a appointment.Appointment, err error) {
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(appointment.BookingConfirmation(a))
}

func printList(appts []appointment.Appointment, err error) {
	if err != nil {
		fmt.Println(err)
		return
	}
	printJSON(appts)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out))
}

func ptr[T any](v T) *T {
	return &v
}
