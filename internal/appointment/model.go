package appointment

const (
	ModeVideo    = "video"
	ModeInPerson = "inperson"
)

// Review fallbacks applied when a stored review omits the field.
const (
	DefaultReviewDate         = "N/A"
	DefaultReviewPatientName  = "Anonymous"
	DefaultReviewVerification = "Unverified"
	DefaultReviewModeOfVisit  = "Not specified"
)

type Review struct {
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment"`
	Date         string  `json:"date,omitempty"`
	PatientName  string  `json:"patientName,omitempty"`
	Verification string  `json:"verification,omitempty"`
	ModeOfVisit  string  `json:"modeOfVisit,omitempty"`
}

type Doctor struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Specialty         string   `json:"specialty"`
	Gender            string   `json:"gender"`
	ModesOfVisit      []string `json:"modeOfVisit"`
	LanguagesSpoken   []string `json:"languagesSpoken"`
	IllnessesTreated  []string `json:"illnessesTreated"`
	Reviews           []Review `json:"reviews"`
	InsuranceAccepted []string `json:"insuranceAccepted"`
	Location          string   `json:"location"`
}

// Appointment is a live booking. DoctorName is copied from the directory at
// booking time and is not refreshed afterwards.
type Appointment struct {
	ID                      int     `json:"id"`
	PatientName             string  `json:"patientName"`
	DoctorID                int     `json:"doctorId"`
	DoctorName              string  `json:"doctorName"`
	Date                    string  `json:"date"`
	Time                    string  `json:"time"`
	IsNewPatient            bool    `json:"isNewPatient"`
	IsBookingForSomeoneElse bool    `json:"isBookingForSomeoneElse"`
	Location                string  `json:"location"`
	InsuranceProvider       *string `json:"insuranceProvider"`
	MemberID                *string `json:"memberId"`
	Note                    *string `json:"note"`
	ModeOfVisit             string  `json:"modeOfVisit"`
}

// BookingRequest carries the caller's booking input. IsNewPatient is a
// pointer so that an omitted answer can be told apart from false.
type BookingRequest struct {
	PatientName             string
	DoctorID                int
	Date                    string
	Time                    string
	IsNewPatient            *bool
	IsBookingForSomeoneElse bool
	Location                string
	InsuranceProvider       *string
	MemberID                *string
	Note                    *string
	ModeOfVisit             string
}

// FilterCriteria holds optional doctor predicates. Empty fields impose no
// constraint.
type FilterCriteria struct {
	Specialty   string
	Gender      string
	ModeOfVisit string
	Language    string
	Illness     string
}

func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

type InsuranceCheck struct {
	DoctorID   int
	DoctorName string
	Provider   string
	Accepted   bool
}
