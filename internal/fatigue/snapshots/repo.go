package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evolvefit/fatiguecore/internal/fatigue"
	"github.com/evolvefit/fatiguecore/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSnapshotNotFound = errors.New("fatigue snapshot not found")

// Snapshot is the persisted fatigue state of one user, together with
// the moment it was last updated. Elapsed time since UpdatedAt drives
// the decay applied on the next model operation.
type Snapshot struct {
	UserID    string        `json:"userId"`
	State     fatigue.State `json:"state"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var stateBytes []byte
	var updatedAt time.Time
	err = r.db.QueryRow(
		ctx,
		`SELECT state, updated_at FROM fatigue_snapshot WHERE user_id = $1;`,
		userID,
	).Scan(&stateBytes, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var state fatigue.State
	if err := json.Unmarshal(stateBytes, &state); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot state for %s: %w", userID, err)
	}
	state.Normalize()

	return &Snapshot{
		UserID:    userID,
		State:     state,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *Repo) Upsert(ctx context.Context, snapshot Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", snapshot.UserID))

	stateBytes, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("marshal snapshot state: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO fatigue_snapshot (user_id, state, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id)
			DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at;`,
		snapshot.UserID, stateBytes, snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM fatigue_snapshot WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
