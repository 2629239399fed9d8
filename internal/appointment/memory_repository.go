package appointment

import "fmt"

type slotKey struct {
	doctorID int
	date     string
	time     string
}

// MemoryRepository keeps appointments in booking order with a slot index for
// conflict lookups.
type MemoryRepository struct {
	lastID int
	items  []Appointment
	slots  map[slotKey]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		slots: make(map[slotKey]int),
	}
}

func (r *MemoryRepository) NextID() int {
	r.lastID++
	return r.lastID
}

func (r *MemoryRepository) Insert(a Appointment) {
	r.items = append(r.items, cloneAppointment(a))
	r.slots[slotKey{a.DoctorID, a.Date, a.Time}] = a.ID
}

func (r *MemoryRepository) indexOf(id int) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) Get(id int) (Appointment, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: id %d", ErrAppointmentNotFound, id)
	}
	return cloneAppointment(r.items[i]), nil
}

func (r *MemoryRepository) UpdateSlot(id int, date, time string) (Appointment, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: id %d", ErrAppointmentNotFound, id)
	}

	a := &r.items[i]
	old := slotKey{a.DoctorID, a.Date, a.Time}
	if r.slots[old] == id {
		delete(r.slots, old)
	}
	a.Date = date
	a.Time = time
	r.slots[slotKey{a.DoctorID, date, time}] = id

	return cloneAppointment(*a), nil
}

func (r *MemoryRepository) Delete(id int) (Appointment, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: id %d", ErrAppointmentNotFound, id)
	}

	removed := r.items[i]
	r.items = append(r.items[:i], r.items[i+1:]...)

	key := slotKey{removed.DoctorID, removed.Date, removed.Time}
	if r.slots[key] == id {
		delete(r.slots, key)
	}
	return removed, nil
}

func (r *MemoryRepository) SlotHolder(doctorID int, date, time string) (int, bool) {
	id, ok := r.slots[slotKey{doctorID, date, time}]
	return id, ok
}

func (r *MemoryRepository) ListByPatient(patientName string) []Appointment {
	out := []Appointment{}
	for _, a := range r.items {
		if a.PatientName == patientName {
			out = append(out, cloneAppointment(a))
		}
	}
	return out
}

func (r *MemoryRepository) ListByDoctor(doctorID int) []Appointment {
	out := []Appointment{}
	for _, a := range r.items {
		if a.DoctorID == doctorID {
			out = append(out, cloneAppointment(a))
		}
	}
	return out
}

func (r *MemoryRepository) Count() int {
	return len(r.items)
}

// cloneAppointment detaches the optional insurance fields so stored records
// never share memory with callers.
func cloneAppointment(a Appointment) Appointment {
	a.InsuranceProvider = cloneString(a.InsuranceProvider)
	a.MemberID = cloneString(a.MemberID)
	a.Note = cloneString(a.Note)
	return a
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
