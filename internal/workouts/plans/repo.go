package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	ErrPlanNotFound = errors.New("workout plan not found")
	// ErrUnknownExercise marks a plan tree naming an exercise id that
	// does not exist in the catalog.
	ErrUnknownExercise = errors.New("planned set references unknown exercise")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create stores the whole plan tree in one transaction and returns it
// with the generated ids filled in.
func (r *Repo) Create(ctx context.Context, ownerID int, params PlanParams) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				log.Errorf("create plan, rollback tx: %s", rollbackErr)
			}
		}
	}()

	var planID int
	err = tx.QueryRow(ctx, `
		INSERT INTO workout_plan (owner_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		ownerID, params.Name, params.Description,
	).Scan(&planID)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	if err = insertPlanTree(ctx, tx, planID, params.Groups); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return r.Get(ctx, planID)
}

// Replace swaps the entire plan tree for a new one: the plan row is
// updated in place, all its groups and sets are deleted and recreated
// from the given params. Returns ErrPlanNotFound when the plan does not
// exist or belongs to another user.
func (r *Repo) Replace(ctx context.Context, planID, ownerID int, params PlanParams) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				log.Errorf("replace plan, rollback tx: %s", rollbackErr)
			}
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE workout_plan
		SET name = $3, description = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		planID, ownerID, params.Name, params.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrPlanNotFound
		return nil, err
	}

	// cascades to planned_set
	if _, err = tx.Exec(ctx,
		`DELETE FROM exercise_group WHERE workout_plan_id = $1`, planID,
	); err != nil {
		return nil, fmt.Errorf("delete plan groups: %w", err)
	}

	if err = insertPlanTree(ctx, tx, planID, params.Groups); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return r.Get(ctx, planID)
}

func insertPlanTree(ctx context.Context, tx pgx.Tx, planID int, groups []ExerciseGroupParam) error {
	for i, group := range groups {
		var groupID int
		err := tx.QueryRow(ctx, `
			INSERT INTO exercise_group (workout_plan_id, group_order, name)
			VALUES ($1, $2, $3)
			RETURNING id`,
			planID, orderOrPosition(group.GroupOrder, i), group.Name,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("insert exercise group: %w", err)
		}

		for j, set := range group.Sets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO planned_set
					(group_id, exercise_id, set_order, target_reps, target_weight, rest_time_after, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				groupID, set.ExerciseID, orderOrPosition(set.SetOrder, j),
				set.TargetReps, set.TargetWeight, set.RestTimeAfter, set.Notes,
			); err != nil {
				if pkg.IsForeignKeyViolationError(err) {
					return ErrUnknownExercise
				}
				return fmt.Errorf("insert planned set: %w", err)
			}
		}
	}
	return nil
}

// Get returns the full plan tree, groups and sets in their stored order.
func (r *Repo) Get(ctx context.Context, planID int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var plan Plan
	err = r.db.QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM workout_plan
		WHERE id = $1`,
		planID,
	).Scan(&plan.ID, &plan.OwnerID, &plan.Name, &plan.Description, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if plan.Groups, err = r.planGroups(ctx, planID); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *Repo) planGroups(ctx context.Context, planID int) ([]ExerciseGroup, error) {
	groupRows, err := r.db.Query(ctx, `
		SELECT id, group_order, name
		FROM exercise_group
		WHERE workout_plan_id = $1
		ORDER BY group_order`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("get plan groups: %w", err)
	}
	defer groupRows.Close()

	groups := []ExerciseGroup{}
	for groupRows.Next() {
		var group ExerciseGroup
		if err := groupRows.Scan(&group.ID, &group.GroupOrder, &group.Name); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		group.Sets = []PlannedSet{}
		groups = append(groups, group)
	}
	if groupRows.Err() != nil {
		return nil, groupRows.Err()
	}

	setRows, err := r.db.Query(ctx, `
		SELECT ps.id, ps.group_id, ps.exercise_id, ps.set_order,
			ps.target_reps, ps.target_weight, ps.rest_time_after, ps.notes
		FROM planned_set ps
		JOIN exercise_group eg ON eg.id = ps.group_id
		WHERE eg.workout_plan_id = $1
		ORDER BY eg.group_order, ps.set_order`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("get planned sets: %w", err)
	}
	defer setRows.Close()

	group2index := make(map[int]int, len(groups))
	for i, group := range groups {
		group2index[group.ID] = i
	}

	for setRows.Next() {
		var set PlannedSet
		var groupID int
		if err := setRows.Scan(
			&set.ID, &groupID, &set.ExerciseID, &set.SetOrder,
			&set.TargetReps, &set.TargetWeight, &set.RestTimeAfter, &set.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan planned set row: %w", err)
		}
		i, ok := group2index[groupID]
		if !ok {
			continue
		}
		groups[i].Sets = append(groups[i].Sets, set)
	}
	if setRows.Err() != nil {
		return nil, setRows.Err()
	}

	return groups, nil
}

// List returns the owner's plans without their group trees, newest first.
func (r *Repo) List(ctx context.Context, ownerID int) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM workout_plan
		WHERE owner_id = $1
		ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plansList []Plan
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(
			&plan.ID, &plan.OwnerID, &plan.Name, &plan.Description,
			&plan.CreatedAt, &plan.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plansList = append(plansList, plan)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return plansList, nil
}

// Delete removes the plan and, via cascades, its whole tree. Returns
// ErrPlanNotFound when the plan does not exist or belongs to another user.
func (r *Repo) Delete(ctx context.Context, planID, ownerID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_plan WHERE id = $1 AND owner_id = $2`,
		planID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
