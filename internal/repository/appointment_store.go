package repository

import (
	"sync"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

// AppointmentStore is the in-memory appointment collection together with the
// student -> appointment reverse index and the per-appointment feedback entries.
// One RWMutex guards every collection.
//
// Writers go through Update so that reading current state, validating and
// mutating happen inside a single critical section.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]*models.Appointment
	order        []string
	bookings     map[string][]string
	feedback     map[string][]models.Feedback
}

// NewAppointmentStore creates an empty store.
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		appointments: make(map[string]*models.Appointment),
		bookings:     make(map[string][]string),
		feedback:     make(map[string][]models.Feedback),
	}
}

// StoreReader exposes read access inside View and Update callbacks. Returned
// pointers alias store state and must not escape the callback.
type StoreReader interface {
	Get(id string) (*models.Appointment, bool)
	Each(fn func(*models.Appointment) bool)
	StudentBookings(studentID string) []string
	Feedback(id string) []models.Feedback
	Len() int
}

// StoreTx is the mutable view handed to Update callbacks.
type StoreTx interface {
	StoreReader
	Insert(apt *models.Appointment)
	SetStatus(id string, status models.AppointmentStatus)
	AddBooking(id, studentID string)
	RemoveBooking(id, studentID string)
	AddFeedback(entry models.Feedback)
}

// View runs fn under the read lock.
func (s *AppointmentStore) View(fn func(StoreReader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(storeTx{s})
}

// Update runs fn under the write lock. fn must finish validating before it mutates.
func (s *AppointmentStore) Update(fn func(StoreTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(storeTx{s})
}

type storeTx struct {
	s *AppointmentStore
}

func (t storeTx) Get(id string) (*models.Appointment, bool) {
	apt, ok := t.s.appointments[id]
	return apt, ok
}

// Each walks appointments in insertion order until fn returns false.
func (t storeTx) Each(fn func(*models.Appointment) bool) {
	for _, id := range t.s.order {
		if !fn(t.s.appointments[id]) {
			return
		}
	}
}

func (t storeTx) StudentBookings(studentID string) []string {
	ids := t.s.bookings[studentID]
	return append(make([]string, 0, len(ids)), ids...)
}

// Feedback returns a copy of the entries left on appointment id, oldest first.
func (t storeTx) Feedback(id string) []models.Feedback {
	entries := t.s.feedback[id]
	return append(make([]models.Feedback, 0, len(entries)), entries...)
}

func (t storeTx) Len() int {
	return len(t.s.order)
}

func (t storeTx) Insert(apt *models.Appointment) {
	if _, exists := t.s.appointments[apt.ID]; !exists {
		t.s.order = append(t.s.order, apt.ID)
	}
	t.s.appointments[apt.ID] = apt
}

func (t storeTx) SetStatus(id string, status models.AppointmentStatus) {
	if apt, ok := t.s.appointments[id]; ok {
		apt.Status = status
	}
}

// AddBooking appends studentID to the appointment's slots and the appointment to the
// student's reverse index, skipping entries already present.
func (t storeTx) AddBooking(id, studentID string) {
	apt, ok := t.s.appointments[id]
	if !ok {
		return
	}
	if !apt.HasStudent(studentID) {
		apt.CurrentSlots = append(apt.CurrentSlots, studentID)
	}
	if !contains(t.s.bookings[studentID], id) {
		t.s.bookings[studentID] = append(t.s.bookings[studentID], id)
	}
}

// RemoveBooking drops studentID from the appointment and id from the reverse index.
func (t storeTx) RemoveBooking(id, studentID string) {
	if apt, ok := t.s.appointments[id]; ok {
		apt.CurrentSlots = without(apt.CurrentSlots, studentID)
	}
	remaining := without(t.s.bookings[studentID], id)
	if len(remaining) == 0 {
		delete(t.s.bookings, studentID)
		return
	}
	t.s.bookings[studentID] = remaining
}

// AddFeedback appends entry to its appointment's feedback list.
func (t storeTx) AddFeedback(entry models.Feedback) {
	if _, ok := t.s.appointments[entry.AppointmentID]; !ok {
		return
	}
	t.s.feedback[entry.AppointmentID] = append(t.s.feedback[entry.AppointmentID], entry)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func without(items []string, target string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
