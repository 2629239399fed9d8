package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
)

// SampleDoctors returns the fixed directory the registry starts with.
func SampleDoctors() []appointment.Doctor {
	return []appointment.Doctor{
		{
			ID:               1,
			Name:             "Dr. John Smith",
			Specialty:        "Family Nurse Practitioner",
			Gender:           "Male",
			ModesOfVisit:     []string{appointment.ModeVideo, appointment.ModeInPerson},
			LanguagesSpoken:  []string{"English", "Spanish"},
			IllnessesTreated: []string{"Heart Disease", "High Blood Pressure"},
			Reviews: []appointment.Review{
				{
					Rating:       4.5,
					Comment:      "Very caring and thorough doctor.",
					Date:         "April 10, 2025",
					PatientName:  "Emily R.",
					Verification: "Verified patient",
					ModeOfVisit:  "In-person visit",
				},
				{
					Rating:       3.5,
					Comment:      "Good, but a bit rushed.",
					Date:         "March 22, 2025",
					PatientName:  "Jake P.",
					Verification: "Verified patient",
					ModeOfVisit:  "Video visit",
				},
			},
			InsuranceAccepted: []string{"Aetna", "BlueCross BlueShield", "Cigna"},
			Location:          "123 Main St, Colorado Springs, CO",
		},
		{
			ID:               2,
			Name:             "Dr. Deborah Presken, MD",
			Specialty:        "Family Physician",
			Gender:           "Female",
			ModesOfVisit:     []string{appointment.ModeVideo},
			LanguagesSpoken:  []string{"English", "Chinese"},
			IllnessesTreated: []string{"Eczema", "Acne"},
			Reviews: []appointment.Review{
				{
					Rating:       5,
					Comment:      "Amazing care and attention to detail.",
					Date:         "May 6, 2025",
					PatientName:  "Cheryl B.",
					Verification: "Verified patient",
					ModeOfVisit:  "Video visit",
				},
				{
					Rating:       4,
					Comment:      "Great doctor, but hard to reach for follow-ups.",
					Date:         "April 18, 2025",
					PatientName:  "Liam M.",
					Verification: "Verified patient",
					ModeOfVisit:  "In-person visit",
				},
			},
			InsuranceAccepted: []string{"UnitedHealthcare", "Cigna", "Medicare"},
			Location:          "456 Elm St, Boulder, CO",
		},
	}
}

var (
	specialties = []string{
		"Family Physician",
		"Family Nurse Practitioner",
		"Dermatology",
		"Cardiology",
		"Pediatrics",
		"Psychiatry",
		"Endocrinology",
		"Neurology",
	}
	languages = []string{"English", "Spanish", "Chinese", "French", "Vietnamese", "Arabic", "Hindi"}
	illnesses = []string{
		"Eczema", "Acne", "Heart Disease", "High Blood Pressure", "Diabetes",
		"Asthma", "Migraine", "Anxiety", "Depression", "Allergies",
	}
	insurers = []string{
		"Aetna", "BlueCross BlueShield", "Cigna", "UnitedHealthcare", "Medicare", "Medicaid", "Humana",
	}
	comments = []string{
		"Very caring and thorough doctor.",
		"Listened carefully and explained everything.",
		"Good, but a bit rushed.",
		"Hard to reach for follow-ups.",
		"Would recommend to family and friends.",
	}
	verifications = []string{"Verified patient", ""}
	visitModes    = []string{"Video visit", "In-person visit", ""}
)

// FakeDoctors generates count doctors with ids starting at firstID. A zero
// seed gives a different directory on every call.
func FakeDoctors(count, firstID int, seed uint64) []appointment.Doctor {
	f := gofakeit.New(seed)

	out := make([]appointment.Doctor, 0, count)
	for i := 0; i < count; i++ {
		gender := "Male"
		if f.Bool() {
			gender = "Female"
		}

		modes := []string{appointment.ModeVideo}
		if f.Bool() {
			modes = append(modes, appointment.ModeInPerson)
		}

		doc := appointment.Doctor{
			ID:                firstID + i,
			Name:              "Dr. " + f.FirstName() + " " + f.LastName(),
			Specialty:         f.RandomString(specialties),
			Gender:            gender,
			ModesOfVisit:      modes,
			LanguagesSpoken:   pick(f, languages, 1, 3),
			IllnessesTreated:  pick(f, illnesses, 1, 4),
			InsuranceAccepted: pick(f, insurers, 1, 4),
			Location:          fmt.Sprintf("%s, %s, CO", f.Street(), f.City()),
		}

		for r := f.Number(0, 4); r > 0; r-- {
			doc.Reviews = append(doc.Reviews, appointment.Review{
				Rating:       float64(f.Number(2, 10)) / 2,
				Comment:      f.RandomString(comments),
				Date:         f.Date().Format("January 2, 2006"),
				PatientName:  f.FirstName() + " " + f.LastName()[:1] + ".",
				Verification: f.RandomString(verifications),
				ModeOfVisit:  f.RandomString(visitModes),
			})
		}

		out = append(out, doc)
	}
	return out
}

// pick returns between minN and maxN distinct values from pool.
func pick(f *gofakeit.Faker, pool []string, minN, maxN int) []string {
	n := f.Number(minN, maxN)
	shuffled := append([]string(nil), pool...)
	f.ShuffleStrings(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// LoadFile reads a JSON array of doctors.
func LoadFile(path string) ([]appointment.Doctor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}

	var doctors []appointment.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("decode directory file %s: %w", path, err)
	}
	return doctors, nil
}

// WriteFile stores doctors as indented JSON.
func WriteFile(path string, doctors []appointment.Doctor) error {
	data, err := json.MarshalIndent(doctors, "", "  ")
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write directory file: %w", err)
	}
	return nil
}

// Directory builds the doctor list used at startup: the sample doctors or
// the contents of file, followed by fakeCount generated doctors.
func Directory(file string, fakeCount int, fakeSeed uint64) ([]appointment.Doctor, error) {
	doctors := SampleDoctors()
	if file != "" {
		loaded, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		doctors = loaded
	}

	if fakeCount > 0 {
		next := 1
		for _, d := range doctors {
			if d.ID >= next {
				next = d.ID + 1
			}
		}
		doctors = append(doctors, FakeDoctors(fakeCount, next, fakeSeed)...)
	}
	return doctors, nil
}
