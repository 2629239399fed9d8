package appointment

// Repository stores live appointments. Implementations are not required to be
// safe for concurrent use; Service serialises every call.
type Repository interface {
	// NextID reserves the next appointment id. Ids are never handed out twice.
	NextID() int
	Insert(a Appointment)
	Get(id int) (Appointment, error)
	UpdateSlot(id int, date, time string) (Appointment, error)
	Delete(id int) (Appointment, error)

	// SlotHolder returns the id of the live appointment occupying the slot.
	SlotHolder(doctorID int, date, time string) (int, bool)

	ListByPatient(patientName string) []Appointment
	ListByDoctor(doctorID int) []Appointment
	Count() int
}
