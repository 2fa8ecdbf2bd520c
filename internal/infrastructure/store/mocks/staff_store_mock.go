package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/example/resto-backoffice/internal/auth"
)

// MockStaffStore is an in-memory StaffStore for tests.
type MockStaffStore struct {
	mu    sync.Mutex
	staff map[string]auth.Staff // keyed by id

	FindErr error

	FindCalls []string
}

func NewMockStaffStore() *MockStaffStore {
	return &MockStaffStore{
		staff: make(map[string]auth.Staff),
	}
}

// Seed registers a staff member directly.
func (m *MockStaffStore) Seed(st auth.Staff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[st.ID] = st
}

func (m *MockStaffStore) FindByEmail(ctx context.Context, email string) (*auth.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindCalls = append(m.FindCalls, email)

	if m.FindErr != nil {
		return nil, m.FindErr
	}

	for _, st := range m.staff {
		if strings.EqualFold(st.Email, email) {
			found := st
			return &found, nil
		}
	}
	return nil, auth.ErrStaffNotFound
}
