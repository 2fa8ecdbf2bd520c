package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/resto-backoffice/internal/auth"
)

// PostgresStaffStore implements StaffStore against the staff table.
type PostgresStaffStore struct {
	db *sql.DB
}

func NewPostgresStaffStore(db *sql.DB) *PostgresStaffStore {
	return &PostgresStaffStore{db: db}
}

func (s *PostgresStaffStore) FindByEmail(ctx context.Context, email string) (*auth.Staff, error) {
	var st auth.Staff
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM staff WHERE email ILIKE $1
	`, email).Scan(&st.ID, &st.Email, &st.Name, &st.PasswordHash, &st.Role, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, auth.ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding staff by email: %w", err)
	}
	return &st, nil
}
