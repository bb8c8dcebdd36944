package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsDuplicateEntry(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"driver 1062", errors.New("Error 1062 (23000): Duplicate entry '7-3-5' for key 'tickets.uq_tickets_session_seat'"), true},
		{"lowercase message", errors.New("duplicate entry '7-3-5'"), true},
		{"wrapped", fmt.Errorf("insert ticket: %w", errors.New("Error 1062: Duplicate entry")), true},
		{"other mysql error", errors.New("Error 1146 (42S02): Table 'cinema.ticketz' doesn't exist"), false},
		{"connection fault", errors.New("dial tcp: connection refused"), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isDuplicateEntry(tc.err); got != tc.want {
				t.Fatalf("isDuplicateEntry(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
