package models

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsIntegrityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"record not found", gorm.ErrRecordNotFound, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped foreign key", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), true},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, true},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, true},
		{"pgx undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"pq foreign key", &pq.Error{Code: "23503"}, true},
		{"pq syntax", &pq.Error{Code: "42601"}, false},
		{"mysql duplicate", &mysqldriver.MySQLError{Number: 1062}, true},
		{"mysql missing table", &mysqldriver.MySQLError{Number: 1146}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIntegrityError(tt.err))
		})
	}
}
