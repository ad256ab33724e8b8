package sessions

import "time"

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Owned is implemented by every entity the visibility checks care
// about. Permission decisions go through this one interface instead of
// poking at entity internals.
type Owned interface {
	OwnedBy(userID int) bool
}

// Session is one logged attempt at performing a workout. It starts
// in_progress and ends in exactly one of the terminal states, completed
// or cancelled. The cursor (CurrentGroupIndex, CurrentSetIndex) marks
// the position within the plan; it is client-driven and deliberately
// not validated against the plan structure.
type Session struct {
	ID                int        `json:"id"`
	OwnerID           int        `json:"owner_id"`
	PlanID            *int       `json:"plan_id,omitempty"`
	Status            string     `json:"status"`
	CurrentGroupIndex int        `json:"current_group_index"`
	CurrentSetIndex   int        `json:"current_set_index"`
	DateStarted       time.Time  `json:"date_started"`
	DateFinished      *time.Time `json:"date_finished,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

func (s *Session) OwnedBy(userID int) bool {
	return s.OwnerID == userID
}

func (s *Session) InProgress() bool {
	return s.Status == StatusInProgress
}

// LoggedSet is an immutable record of one set as actually performed.
type LoggedSet struct {
	ID             int       `json:"id"`
	SessionID      int       `json:"session_id"`
	ExerciseID     int       `json:"exercise_id"`
	PlannedSetID   *int      `json:"planned_set_id,omitempty"`
	SetOrder       int       `json:"set_order"`
	ActualReps     int       `json:"actual_reps"`
	ActualWeight   float64   `json:"actual_weight"`
	ActualRestTime *int      `json:"actual_rest_time,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

var _ Owned = (*Session)(nil)
