package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	pgconnv5 "github.com/jackc/pgx/v5/pgconn"
)

func TestIsRetryablePgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"serialization v5", &pgconnv5.PgError{Code: "40001"}, true},
		{"wrapped", fmt.Errorf("insert: %w", &pgconnv5.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconnv5.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := isRetryablePgError(tt.err); got != tt.want {
			t.Errorf("%s: isRetryablePgError = %v, want %v", tt.name, got, tt.want)
		}
	}
}
