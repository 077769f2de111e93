package lifecycle

import (
	"testing"
	"time"
)

func orderTable() []Threshold {
	return []Threshold{
		Minutes("received", 0),
		Minutes("confirmed", 2),
		Minutes("delivered", 40),
	}
}

func TestDerive(t *testing.T) {
	created := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)

	t.Run("picks last threshold at or below elapsed", func(t *testing.T) {
		cases := []struct {
			elapsed time.Duration
			want    string
		}{
			{0, "received"},
			{1 * time.Minute, "received"},
			{2 * time.Minute, "confirmed"},
			{5 * time.Minute, "confirmed"},
			{40 * time.Minute, "delivered"},
			{41 * time.Minute, "delivered"},
			{24 * time.Hour, "delivered"},
		}

		for _, tc := range cases {
			got, ok := Derive(created, created.Add(tc.elapsed), orderTable())
			if !ok {
				t.Fatalf("elapsed %v: expected a status", tc.elapsed)
			}
			if got != tc.want {
				t.Errorf("elapsed %v: got %q, want %q", tc.elapsed, got, tc.want)
			}
		}
	})

	t.Run("monotonic over increasing now", func(t *testing.T) {
		table := orderTable()
		rank := map[string]int{"received": 0, "confirmed": 1, "delivered": 2}

		prev := -1
		for m := 0; m <= 60; m++ {
			status, ok := Derive(created, created.Add(time.Duration(m)*time.Minute), table)
			if !ok {
				t.Fatalf("minute %d: expected a status", m)
			}
			if rank[status] < prev {
				t.Fatalf("minute %d: status %q regressed", m, status)
			}
			prev = rank[status]
		}
	})

	t.Run("zero created time falls back", func(t *testing.T) {
		if _, ok := Derive(time.Time{}, time.Now(), orderTable()); ok {
			t.Error("expected no status for zero createdAt")
		}
	})

	t.Run("empty table falls back", func(t *testing.T) {
		if _, ok := Derive(created, created.Add(time.Hour), nil); ok {
			t.Error("expected no status for empty table")
		}
	})

	t.Run("now before first threshold falls back", func(t *testing.T) {
		table := []Threshold{Minutes("open", 5)}
		if _, ok := Derive(created, created.Add(time.Minute), table); ok {
			t.Error("expected no status before first threshold")
		}
	})
}
