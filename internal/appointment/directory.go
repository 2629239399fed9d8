package appointment

import (
	"fmt"
	"slices"
	"strings"
)

// Directory is the seeded set of doctors. It is immutable once built, so it
// needs no locking.
type Directory struct {
	doctors []Doctor
	index   map[int]int
}

// NewDirectory copies doctors into a new directory, keeping their order.
func NewDirectory(doctors []Doctor) (*Directory, error) {
	d := &Directory{
		doctors: make([]Doctor, 0, len(doctors)),
		index:   make(map[int]int, len(doctors)),
	}

	for _, doc := range doctors {
		if doc.ID <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDoctorID, doc.ID)
		}
		if _, ok := d.index[doc.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDoctorID, doc.ID)
		}
		d.index[doc.ID] = len(d.doctors)
		d.doctors = append(d.doctors, cloneDoctor(doc))
	}

	return d, nil
}

func (d *Directory) FindByID(id int) (Doctor, error) {
	i, ok := d.index[id]
	if !ok {
		return Doctor{}, fmt.Errorf("%w: id %d", ErrDoctorNotFound, id)
	}
	return cloneDoctor(d.doctors[i]), nil
}

func (d *Directory) Exists(id int) bool {
	_, ok := d.index[id]
	return ok
}

func (d *Directory) Len() int {
	return len(d.doctors)
}

func (d *Directory) List() []Doctor {
	out := make([]Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		out = append(out, cloneDoctor(doc))
	}
	return out
}

// Filter returns every doctor satisfying all non-empty criteria, compared
// case-insensitively.
func (d *Directory) Filter(c FilterCriteria) []Doctor {
	out := []Doctor{}
	for _, doc := range d.doctors {
		if c.Specialty != "" && !strings.EqualFold(doc.Specialty, c.Specialty) {
			continue
		}
		if c.Gender != "" && !strings.EqualFold(doc.Gender, c.Gender) {
			continue
		}
		if c.ModeOfVisit != "" && !containsFold(doc.ModesOfVisit, c.ModeOfVisit) {
			continue
		}
		if c.Language != "" && !containsFold(doc.LanguagesSpoken, c.Language) {
			continue
		}
		if c.Illness != "" && !containsFold(doc.IllnessesTreated, c.Illness) {
			continue
		}
		out = append(out, cloneDoctor(doc))
	}
	return out
}

// Reviews returns the doctor's reviews in stored order with the display
// fallbacks filled in.
func (d *Directory) Reviews(doctorID int) ([]Review, error) {
	i, ok := d.index[doctorID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrDoctorNotFound, doctorID)
	}

	src := d.doctors[i].Reviews
	out := make([]Review, 0, len(src))
	for _, r := range src {
		if r.Date == "" {
			r.Date = DefaultReviewDate
		}
		if r.PatientName == "" {
			r.PatientName = DefaultReviewPatientName
		}
		if r.Verification == "" {
			r.Verification = DefaultReviewVerification
		}
		if r.ModeOfVisit == "" {
			r.ModeOfVisit = DefaultReviewModeOfVisit
		}
		out = append(out, r)
	}
	return out, nil
}

// CheckInsurance matches provider against the accepted list exactly,
// including case.
func (d *Directory) CheckInsurance(doctorID int, provider string) (InsuranceCheck, error) {
	i, ok := d.index[doctorID]
	if !ok {
		return InsuranceCheck{}, fmt.Errorf("%w: id %d", ErrDoctorNotFound, doctorID)
	}

	doc := d.doctors[i]
	return InsuranceCheck{
		DoctorID:   doc.ID,
		DoctorName: doc.Name,
		Provider:   provider,
		Accepted:   slices.Contains(doc.InsuranceAccepted, provider),
	}, nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func cloneDoctor(d Doctor) Doctor {
	d.ModesOfVisit = slices.Clone(d.ModesOfVisit)
	d.LanguagesSpoken = slices.Clone(d.LanguagesSpoken)
	d.IllnessesTreated = slices.Clone(d.IllnessesTreated)
	d.InsuranceAccepted = slices.Clone(d.InsuranceAccepted)
	d.Reviews = slices.Clone(d.Reviews)
	return d
}
