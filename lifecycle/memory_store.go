package lifecycle

import (
	"fmt"
	"sync"

	"github.com/nellaibill/teachersbank/models"
)

// MemoryStore is an in-memory Store with the same uniqueness behavior as
// the Postgres schema. It backs package tests and handler tests; nothing in
// the server wires it up.
type MemoryStore struct {
	mu        sync.Mutex
	teachers  map[uint]models.Teacher
	dispatch  map[uint]models.Dispatch
	followups map[uint]models.Followup
	nextID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teachers:  make(map[uint]models.Teacher),
		dispatch:  make(map[uint]models.Dispatch),
		followups: make(map[uint]models.Followup),
	}
}

// AddTeacher seeds a teacher, assigning an ID when missing.
func (m *MemoryStore) AddTeacher(t models.Teacher) models.Teacher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	}
	m.teachers[t.ID] = t
	return t
}

func (m *MemoryStore) ActiveTeacherByBarcode(code string) (*models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if t.Barcode == code && t.IsActive {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateDispatch(d *models.Dispatch, first *models.Followup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.dispatch {
		if existing.TeacherID == d.TeacherID && existing.DispatchDate.Equal(d.DispatchDate) {
			return fmt.Errorf("%w: dispatch exists for teacher %d on %s", ErrConflict, d.TeacherID, d.DispatchDate)
		}
	}
	m.nextID++
	d.ID = m.nextID
	m.dispatch[d.ID] = *d

	first.DispatchID = d.ID
	m.nextID++
	first.ID = m.nextID
	m.followups[first.ID] = *first
	return nil
}

func (m *MemoryStore) FollowupByID(id uint) (*models.Followup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.followups[id]
	if !ok {
		return nil, nil
	}
	cp := f
	return &cp, nil
}

func (m *MemoryStore) DispatchByID(id uint) (*models.Dispatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dispatch[id]
	if !ok {
		return nil, nil
	}
	cp := d
	return &cp, nil
}

func (m *MemoryStore) SaveFollowup(f *models.Followup, next *models.Followup) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.followups[f.ID]; !ok {
		return false, fmt.Errorf("followup %d vanished", f.ID)
	}
	m.followups[f.ID] = *f

	if next == nil {
		return false, nil
	}
	for _, existing := range m.followups {
		if existing.DispatchID == next.DispatchID && existing.FollowupLevel == next.FollowupLevel {
			return false, nil // same level already there, mirror ON CONFLICT DO NOTHING
		}
	}
	m.nextID++
	next.ID = m.nextID
	m.followups[next.ID] = *next
	return true, nil
}

// FollowupsForDispatch lists a dispatch's followups ordered by level.
// Assertion helper for tests.
func (m *MemoryStore) FollowupsForDispatch(dispatchID uint) []models.Followup {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Followup
	for level := 1; level <= models.MaxFollowupLevel; level++ {
		for _, f := range m.followups {
			if f.DispatchID == dispatchID && f.FollowupLevel == level {
				out = append(out, f)
			}
		}
	}
	return out
}

// DispatchCount reports how many dispatches exist for a teacher.
func (m *MemoryStore) DispatchCount(teacherID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range m.dispatch {
		if d.TeacherID == teacherID {
			n++
		}
	}
	return n
}
