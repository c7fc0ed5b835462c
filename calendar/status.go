package calendar

// Status is the derived classification of a single calendar day. It is
// recomputed from the source records on every reconciliation pass and is
// never persisted.
type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"
	StatusLeave     Status = "leave"
	StatusSickLeave Status = "sick_leave"
	StatusHoliday   Status = "holiday"
	StatusWeekend   Status = "weekend"
	StatusFuture    Status = "future"
	StatusUnknown   Status = "unknown"
)

func (s Status) String() string {
	return string(s)
}

// Counted reports whether the status represents a day the employee worked.
// Used for calendar painting only; aggregate totals come from the backend.
func (s Status) Counted() bool {
	return s == StatusPresent || s == StatusLate
}
