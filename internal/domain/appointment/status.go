package appointment

import "github.com/BruksfildServices01/hospital-manager/internal/httperr"

var ErrInvalidState = httperr.ErrBusiness("invalid_state")

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

// BlockingStatuses occupy a doctor's calendar.
var BlockingStatuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) IsBlocking() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && !s.IsBlocking()
}

// BlockingStatusStrings is BlockingStatuses in the form SQL filters want.
func BlockingStatusStrings() []string {
	out := make([]string, len(BlockingStatuses))
	for i, s := range BlockingStatuses {
		out[i] = string(s)
	}
	return out
}

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// CanTransition returns invalid_state when to is not reachable from current.
func CanTransition(current, to Status) error {
	for _, next := range transitions[current] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidState
}

func InitialStatus() Status {
	return StatusScheduled
}
