package domain

import "time"

// Location is a branch where balance reductions are attributed.
type Location struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
