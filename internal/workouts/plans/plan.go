package plans

import "time"

// Plan is a reusable workout template: an ordered list of exercise
// groups, each holding an ordered list of planned sets. The whole tree
// belongs to a single owner and is replaced wholesale on update.
type Plan struct {
	ID          int             `json:"id"`
	OwnerID     int             `json:"owner_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Groups      []ExerciseGroup `json:"exercise_groups"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Plan) OwnedBy(userID int) bool {
	return p.OwnerID == userID
}

type ExerciseGroup struct {
	ID         int          `json:"id"`
	GroupOrder int          `json:"group_order"`
	Name       *string      `json:"name,omitempty"`
	Sets       []PlannedSet `json:"planned_sets"`
}

type PlannedSet struct {
	ID            int      `json:"id"`
	ExerciseID    int      `json:"exercise_id"`
	SetOrder      int      `json:"set_order"`
	TargetReps    *string  `json:"target_reps,omitempty"`
	TargetWeight  *float64 `json:"target_weight,omitempty"`
	RestTimeAfter *int     `json:"rest_time_after,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// PlanParams carries the client-supplied plan tree for create and
// full-replace update. Groups and sets without an explicit order get
// their slice position, duplicates are stored as given. Client
// supplied ids inside the tree are ignored.
type PlanParams struct {
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Groups      []ExerciseGroupParam `json:"exercise_groups"`
}

type ExerciseGroupParam struct {
	GroupOrder *int              `json:"group_order"`
	Name       *string           `json:"name"`
	Sets       []PlannedSetParam `json:"planned_sets"`
}

type PlannedSetParam struct {
	ExerciseID    int      `json:"exercise_id"`
	SetOrder      *int     `json:"set_order"`
	TargetReps    *string  `json:"target_reps"`
	TargetWeight  *float64 `json:"target_weight"`
	RestTimeAfter *int     `json:"rest_time_after"`
	Notes         *string  `json:"notes"`
}

func orderOrPosition(order *int, position int) int {
	if order != nil {
		return *order
	}
	return position
}
