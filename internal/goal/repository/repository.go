package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/fitgoals/backend/internal/common/db"
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	"github.com/fitgoals/backend/internal/goal/domain"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

var ErrGoalNotFound = commonerrors.ErrGoalNotFound

type Repository interface {
	Create(ctx context.Context, goal domain.Goal) error
	FindByID(ctx context.Context, id domain.ID) (domain.Goal, error)
	ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error)
	Update(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, goal domain.Goal) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO goals (id, user_id, title, description, start_date, target_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		string(goal.ID),
		string(goal.UserID),
		goal.Title,
		goal.Description,
		goal.StartDate,
		goal.TargetDate,
		goal.CreatedAt,
	)
	return db.HandleExecError(err, "create goal", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Goal, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, user_id, title, description, start_date, target_date, created_at, updated_at
		 FROM goals WHERE id = $1`,
		string(id),
	)

	var goal domain.Goal
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Description,
		&goal.StartDate,
		&goal.TargetDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return domain.Goal{}, db.HandleQueryError(err, ErrGoalNotFound, "find goal by id", start)
	}

	return goal, nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Goal, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, title, description, start_date, target_date, created_at, updated_at
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		string(ownerID),
	)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrGoalNotFound, "list goals by owner", start)
	}
	defer rows.Close()

	goals := make([]domain.Goal, 0)
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Title,
			&goal.Description,
			&goal.StartDate,
			&goal.TargetDate,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		); err != nil {
			return nil, db.HandleQueryError(err, ErrGoalNotFound, "list goals by owner", start)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, ErrGoalNotFound, "list goals by owner", start)
	}

	db.ObserveQuery("list goals by owner", start)
	return goals, nil
}

// Update replaces all four content fields and refreshes updated_at.
func (r *PgRepository) Update(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE goals
		 SET title = $2, description = $3, start_date = $4, target_date = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, user_id, title, description, start_date, target_date, created_at, updated_at`,
		string(goal.ID),
		goal.Title,
		goal.Description,
		goal.StartDate,
		goal.TargetDate,
		goal.UpdatedAt,
	)

	var updated domain.Goal
	err := row.Scan(
		&updated.ID,
		&updated.UserID,
		&updated.Title,
		&updated.Description,
		&updated.StartDate,
		&updated.TargetDate,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		return domain.Goal{}, db.HandleQueryError(err, ErrGoalNotFound, "update goal", start)
	}

	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, string(id))
	if err != nil {
		return db.HandleExecError(err, "delete goal", start)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return db.HandleExecError(nil, "delete goal", start)
}
