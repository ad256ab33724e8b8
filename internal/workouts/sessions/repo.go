package sessions

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
	ErrSessionNotFound      = errors.New("workout session not found")
	ErrNoActiveSession      = errors.New("no active workout session")
	ErrSessionNotInProgress = errors.New("workout session not in progress")
	// ErrInvalidReference marks a write naming a plan, exercise or
	// planned set that does not exist. Client input error, not ours.
	ErrInvalidReference = errors.New("referenced entity not found")
)

// covers the window where the raced session gets finished between the
// failed insert and the fallback select
const startOrResumeMaxAttempts = 3

const sessionSelect = `
	SELECT
		id, owner_id, plan_id, status,
		current_group_index, current_set_index,
		date_started, date_finished, notes
	FROM workout_session
`

// ProgressParams is a partial cursor update, nil fields are left
// untouched. Index values are not checked against the plan structure,
// the client owns the cursor.
type ProgressParams struct {
	GroupIndex *int    `json:"current_group_index"`
	SetIndex   *int    `json:"current_set_index"`
	Notes      *string `json:"notes"`
}

type LogSetParams struct {
	SessionID      int             `json:"session_id"`
	ExerciseID     int             `json:"exercise_id"`
	PlannedSetID   *int            `json:"planned_set_id"`
	SetOrder       int             `json:"set_order"`
	ActualReps     int             `json:"actual_reps"`
	ActualWeight   *float64        `json:"actual_weight"`
	ActualRestTime *int            `json:"actual_rest_time"`
	Progress       *ProgressParams `json:"progress"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// StartOrResume returns the owner's in-progress session, creating one
// when none exists. The insert and the fallback read run in one
// transaction, and the partial unique index on (owner_id) for
// in-progress rows makes sure concurrent calls can never end up with
// two active sessions for the same owner: one caller creates, the rest
// resume.
func (r *Repo) StartOrResume(ctx context.Context, ownerID int, planID *int) (_ *Session, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.startOrResume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				log.Errorf("start or resume session, rollback tx: %s", rollbackErr)
			}
		}
	}()

	var sessionID int
	for attempt := 1; ; attempt++ {
		err = tx.QueryRow(ctx, `
			INSERT INTO workout_session (owner_id, plan_id)
			VALUES ($1, $2)
			ON CONFLICT (owner_id) WHERE status = 'in_progress' DO NOTHING
			RETURNING id`,
			ownerID, planID,
		).Scan(&sessionID)
		if err == nil {
			created = true
			break
		}
		if pkg.IsForeignKeyViolationError(err) {
			err = ErrInvalidReference
			return nil, false, err
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("insert session: %w", err)
		}

		// lost the race (or an active session already existed), resume it
		err = tx.
			QueryRow(ctx, `SELECT id FROM workout_session WHERE owner_id = $1 AND status = 'in_progress'`, ownerID).
			Scan(&sessionID)
		if err == nil {
			break
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("get active session: %w", err)
		}
		// the raced session got finished or cancelled in the meantime,
		// the insert is free to go through now
		if attempt == startOrResumeMaxAttempts {
			return nil, false, fmt.Errorf("get active session: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit tx: %w", err)
	}

	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return session, created, nil
}

// GetActive returns the owner's single in-progress session, or
// ErrNoActiveSession.
func (r *Repo) GetActive(ctx context.Context, ownerID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		sessionSelect+` WHERE owner_id = $1 AND status = 'in_progress'`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	session, err := rows2session(rows)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrNoActiveSession
	}
	return session, err
}

func (r *Repo) Get(ctx context.Context, sessionID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, sessionSelect+` WHERE id = $1`, sessionID)
	if err != nil {
		return nil, err
	}
	return rows2session(rows)
}

// UpdateProgress applies a partial cursor update to an in-progress
// session. ErrSessionNotInProgress is returned for terminal sessions,
// ErrSessionNotFound for nonexistent or foreign ones.
func (r *Repo) UpdateProgress(ctx context.Context, sessionID, ownerID int, params ProgressParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.updateProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		UPDATE workout_session SET
			current_group_index = COALESCE($3, current_group_index),
			current_set_index = COALESCE($4, current_set_index),
			notes = COALESCE($5, notes)
		WHERE id = $1 AND owner_id = $2 AND status = 'in_progress'
		RETURNING
			id, owner_id, plan_id, status,
			current_group_index, current_set_index,
			date_started, date_finished, notes`,
		sessionID, ownerID,
		params.GroupIndex, params.SetIndex, params.Notes,
	)
	if err != nil {
		return nil, err
	}

	session, err := rows2session(rows)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, r.guardFailure(ctx, sessionID, ownerID)
	}
	return session, err
}

// Finish moves an in-progress session to completed and stamps
// date_finished.
func (r *Repo) Finish(ctx context.Context, sessionID, ownerID int) (*Session, error) {
	return r.terminate(ctx, sessionID, ownerID, StatusCompleted)
}

// Cancel moves an in-progress session to cancelled and stamps
// date_finished.
func (r *Repo) Cancel(ctx context.Context, sessionID, ownerID int) (*Session, error) {
	return r.terminate(ctx, sessionID, ownerID, StatusCancelled)
}

func (r *Repo) terminate(ctx context.Context, sessionID, ownerID int, status string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.terminate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// the status guard in the WHERE clause makes the transition atomic,
	// a session that is already terminal matches zero rows
	rows, err := r.db.Query(ctx, `
		UPDATE workout_session SET
			status = $3,
			date_finished = now()
		WHERE id = $1 AND owner_id = $2 AND status = 'in_progress'
		RETURNING
			id, owner_id, plan_id, status,
			current_group_index, current_set_index,
			date_started, date_finished, notes`,
		sessionID, ownerID, status,
	)
	if err != nil {
		return nil, err
	}

	session, err := rows2session(rows)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, r.guardFailure(ctx, sessionID, ownerID)
	}
	return session, err
}

// guardFailure refines a zero-row guarded update into the right
// sentinel: foreign and nonexistent sessions are both reported as
// absent, owned-but-terminal ones as a state conflict.
func (r *Repo) guardFailure(ctx context.Context, sessionID, ownerID int) error {
	var status string
	err := r.db.
		QueryRow(ctx, `SELECT status FROM workout_session WHERE id = $1 AND owner_id = $2`, sessionID, ownerID).
		Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusInProgress {
		return ErrSessionNotInProgress
	}
	// guard failed but the session looks fine now, the caller can retry
	return ErrSessionNotFound
}

// LogSet appends one logged set to the owner's in-progress session and,
// when cursor params accompany the call, advances the session cursor in
// the same transaction. The session row is locked for the duration so
// the append and the cursor move land together.
func (r *Repo) LogSet(ctx context.Context, ownerID int, params LogSetParams) (_ *LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.logSet")
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
				log.Errorf("log set, rollback tx: %s", rollbackErr)
			}
		}
	}()

	var status string
	err = tx.
		QueryRow(ctx, `
			SELECT status FROM workout_session
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE`,
			params.SessionID, ownerID,
		).
		Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if status != StatusInProgress {
		return nil, ErrSessionNotInProgress
	}

	var loggedSet LoggedSet
	err = tx.QueryRow(ctx, `
		INSERT INTO logged_set
			(session_id, exercise_id, planned_set_id, set_order, actual_reps, actual_weight, actual_rest_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, session_id, exercise_id, planned_set_id, set_order, actual_reps, actual_weight, actual_rest_time, completed_at`,
		params.SessionID, params.ExerciseID, params.PlannedSetID,
		params.SetOrder, params.ActualReps, params.ActualWeight, params.ActualRestTime,
	).Scan(
		&loggedSet.ID, &loggedSet.SessionID, &loggedSet.ExerciseID, &loggedSet.PlannedSetID,
		&loggedSet.SetOrder, &loggedSet.ActualReps, &loggedSet.ActualWeight,
		&loggedSet.ActualRestTime, &loggedSet.CompletedAt,
	)
	if err != nil {
		// unknown exercise or planned set
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("insert logged set: %w", err)
	}

	if params.Progress != nil {
		if _, err = tx.Exec(ctx, `
			UPDATE workout_session SET
				current_group_index = COALESCE($2, current_group_index),
				current_set_index = COALESCE($3, current_set_index)
			WHERE id = $1`,
			params.SessionID, params.Progress.GroupIndex, params.Progress.SetIndex,
		); err != nil {
			return nil, fmt.Errorf("update session cursor: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &loggedSet, nil
}

// ListForOwner returns the owner's sessions, newest first.
func (r *Repo) ListForOwner(ctx context.Context, ownerID int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listForOwner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		sessionSelect+` WHERE owner_id = $1 ORDER BY date_started DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	return rows2sessions(rows)
}

// GetLoggedSets returns the session's logged sets in log order.
func (r *Repo) GetLoggedSets(ctx context.Context, sessionID int) (_ []LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.getLoggedSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, exercise_id, planned_set_id, set_order,
			actual_reps, actual_weight, actual_rest_time, completed_at
		FROM logged_set
		WHERE session_id = $1
		ORDER BY set_order, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loggedSets := []LoggedSet{}
	for rows.Next() {
		var ls LoggedSet
		if err := rows.Scan(
			&ls.ID, &ls.SessionID, &ls.ExerciseID, &ls.PlannedSetID, &ls.SetOrder,
			&ls.ActualReps, &ls.ActualWeight, &ls.ActualRestTime, &ls.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan logged set row: %w", err)
		}
		loggedSets = append(loggedSets, ls)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return loggedSets, nil
}

func rows2session(rows pgx.Rows) (*Session, error) {
	defer rows.Close()
	if !rows.Next() {
		if rows.Err() != nil {
			return nil, rows.Err()
		}
		return nil, ErrSessionNotFound
	}

	var s Session
	if err := rows.Scan(
		&s.ID, &s.OwnerID, &s.PlanID, &s.Status,
		&s.CurrentGroupIndex, &s.CurrentSetIndex,
		&s.DateStarted, &s.DateFinished, &s.Notes,
	); err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return &s, nil
}

func rows2sessions(rows pgx.Rows) ([]Session, error) {
	defer rows.Close()

	var sessionsList []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.PlanID, &s.Status,
			&s.CurrentGroupIndex, &s.CurrentSetIndex,
			&s.DateStarted, &s.DateFinished, &s.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessionsList = append(sessionsList, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return sessionsList, nil
}
