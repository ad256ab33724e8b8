package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ExerciseParams struct {
	MuscleGroup string
	Equipment   string
	Level       string
	Category    string
}

type ListParams struct {
	ExerciseParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const exerciseSelect = `
	SELECT
		e.id, e.name, e.source_id, e.force, e.level, e.mechanic, e.category,
		eq.name,
		ARRAY(
			SELECT mg.name FROM exercise_primary_muscle epm
			JOIN muscle_group mg ON mg.id = epm.muscle_group_id
			WHERE epm.exercise_id = e.id
			ORDER BY mg.name
		),
		ARRAY(
			SELECT mg.name FROM exercise_secondary_muscle esm
			JOIN muscle_group mg ON mg.id = esm.muscle_group_id
			WHERE esm.exercise_id = e.id
			ORDER BY mg.name
		),
		e.instructions
	FROM exercise e
	LEFT JOIN equipment eq ON eq.id = e.equipment_id`

func (r *Repo) GetExercise(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, exerciseSelect+` WHERE e.id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}

	if len(exercises) != 1 {
		return nil, ErrExerciseNotFound
	}

	return &exercises[0], nil
}

// ListExercises returns the requested page of the exercise library, together
// with the total number of exercises matching the given filters.
func (r *Repo) ListExercises(ctx context.Context, params ListParams) (_ []Exercise, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
	span.SetAttributes(attribute.String("equipment", params.Equipment))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	total, err = r.exercisesCount(ctx, params.ExerciseParams)
	if err != nil {
		return nil, -1, fmt.Errorf("exercises count: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		exerciseSelect+`
			WHERE ($1::text = '' OR EXISTS (
				SELECT 1 FROM exercise_primary_muscle epm
				JOIN muscle_group mg ON mg.id = epm.muscle_group_id
				WHERE epm.exercise_id = e.id AND mg.name = $1
			))
			AND ($2::text = '' OR eq.name = $2)
			AND ($3::text = '' OR e.level = $3)
			AND ($4::text = '' OR e.category = $4)
			ORDER BY e.name
			LIMIT $5
			OFFSET $6;`,
		params.MuscleGroup, params.Equipment, params.Level, params.Category,
		params.Size, (params.Page-1)*params.Size,
	)
	if err != nil {
		return nil, -1, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, fmt.Errorf("rows: %w", err)
	}

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, -1, fmt.Errorf("rows2exercises: %w", err)
	}
	return exercises, total, nil
}

func (r *Repo) exercisesCount(ctx context.Context, params ExerciseParams) (int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM exercise e
		LEFT JOIN equipment eq ON eq.id = e.equipment_id
			WHERE ($1::text = '' OR EXISTS (
				SELECT 1 FROM exercise_primary_muscle epm
				JOIN muscle_group mg ON mg.id = epm.muscle_group_id
				WHERE epm.exercise_id = e.id AND mg.name = $1
			))
			AND ($2::text = '' OR eq.name = $2)
			AND ($3::text = '' OR e.level = $3)
			AND ($4::text = '' OR e.category = $4);`,
		params.MuscleGroup, params.Equipment, params.Level, params.Category,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get exercises count")
}

func (r *Repo) ListMuscleGroups(ctx context.Context) (_ []MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.musclegroups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM muscle_group ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]MuscleGroup, 0)
	for rows.Next() {
		var mg MuscleGroup
		if err := rows.Scan(&mg.ID, &mg.Name); err != nil {
			return nil, err
		}
		groups = append(groups, mg)
	}
	return groups, nil
}

func (r *Repo) ListEquipment(ctx context.Context) (_ []Equipment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.equipment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM equipment ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	equipment := make([]Equipment, 0)
	for rows.Next() {
		var eq Equipment
		if err := rows.Scan(&eq.ID, &eq.Name); err != nil {
			return nil, err
		}
		equipment = append(equipment, eq)
	}
	return equipment, nil
}

func (r *Repo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		var instructionsBytes []byte
		if err := rows.Scan(
			&e.ID, &e.Name, &e.SourceID, &e.Force, &e.Level, &e.Mechanic, &e.Category,
			&e.Equipment, &e.PrimaryMuscles, &e.SecondaryMuscles, &instructionsBytes,
		); err != nil {
			return nil, err
		}

		if len(instructionsBytes) > 0 {
			if err := json.Unmarshal(instructionsBytes, &e.Instructions); err != nil {
				return nil, fmt.Errorf("unmarshal instructions for exercise %d: %w", e.ID, err)
			}
		}
		if e.Instructions == nil {
			e.Instructions = make([]string, 0)
		}

		exercises = append(exercises, e)
	}

	if exercises == nil {
		exercises = make([]Exercise, 0)
	}

	return exercises, nil
}
