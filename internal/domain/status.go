package domain

// RecordStatus tags the visibility lifecycle of cards and ledger entries.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusArchived RecordStatus = "archived"
	StatusPurged   RecordStatus = "purged"
)

// Valid reports whether s is one of the known statuses.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusPurged:
		return true
	}
	return false
}

// BalanceStatuses selects the entries that make up a card balance. The
// per-card replay and the ledger-wide drift query both count exactly these.
var BalanceStatuses = StatusFilter{Statuses: []RecordStatus{StatusActive}}

// StatusFilter selects which statuses a query returns.
// The zero value returns active records only.
type StatusFilter struct {
	Statuses []RecordStatus
}

// Resolve returns the statuses to query, defaulting to active.
func (f StatusFilter) Resolve() []string {
	if len(f.Statuses) == 0 {
		return []string{string(StatusActive)}
	}

	out := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		if s == StatusPurged {
			continue
		}
		out = append(out, string(s))
	}

	if len(out) == 0 {
		return []string{string(StatusActive)}
	}
	return out
}
