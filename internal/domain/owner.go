package domain

import "time"

// Owner is the employee a gift card is assigned to.
type Owner struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
