package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileSelect = `
	SELECT
		p.user_id, u.username, p.is_public,
		p.gender, p.weight, p.height, p.body_fat_percentage,
		p.created_at, p.updated_at
	FROM profile p
	JOIN app_user u ON u.id = p.user_id
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetByUserID(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.getByUserID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		profileSelect+` WHERE p.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return rows2profile(rows)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		profileSelect+` WHERE lower(u.username) = lower($1)`,
		username,
	)
	if err != nil {
		return nil, err
	}
	return rows2profile(rows)
}

func (r *Repo) Update(ctx context.Context, userID int, params UpdateParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		UPDATE profile SET
			is_public = $2,
			gender = $3,
			weight = $4,
			height = $5,
			body_fat_percentage = $6,
			updated_at = now()
		WHERE user_id = $1`,
		userID,
		params.IsPublic,
		params.Gender,
		params.Weight,
		params.Height,
		params.BodyFatPercentage,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListPublic returns the profiles that opted into public visibility,
// ordered by username for a stable listing.
func (r *Repo) ListPublic(ctx context.Context) (_ []Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.listPublic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		profileSelect+` WHERE p.is_public ORDER BY u.username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.UserID, &p.Username, &p.IsPublic,
			&p.Gender, &p.Weight, &p.Height, &p.BodyFatPercentage,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return profiles, nil
}

// IsPublic reports the visibility of the given user's profile, also
// resolving whether the user exists at all (ErrProfileNotFound).
func (r *Repo) IsPublic(ctx context.Context, userID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.isPublic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var isPublic bool
	err = r.db.
		QueryRow(ctx, `SELECT is_public FROM profile WHERE user_id = $1`, userID).
		Scan(&isPublic)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrProfileNotFound
	}
	if err != nil {
		return false, err
	}
	return isPublic, nil
}

func rows2profile(rows pgx.Rows) (*Profile, error) {
	defer rows.Close()
	if !rows.Next() {
		if rows.Err() != nil {
			return nil, rows.Err()
		}
		return nil, ErrProfileNotFound
	}

	var p Profile
	if err := rows.Scan(
		&p.UserID, &p.Username, &p.IsPublic,
		&p.Gender, &p.Weight, &p.Height, &p.BodyFatPercentage,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}
	return &p, nil
}
