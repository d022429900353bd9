package history

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/internal/workout"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureSchema creates the history table if missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create workout history schema: %w", err)
	}
	return nil
}

// Add stores all entries of one transfer atomically.
func (r *Repo) Add(ctx context.Context, address, txHash string, entries []workout.Entry, createdAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("address", address),
		attribute.Int("entries", len(entries)),
	)

	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{address, string(e.Type), e.Reps, txHash, createdAt})
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"workout_history"},
		[]string{"address", "workout_type", "reps", "tx_hash", "created_at"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// Totals returns the cumulative reps per workout type for an address.
func (r *Repo) Totals(ctx context.Context, address string) (_ map[workout.Type]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.totals")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("address", address))

	rows, err := r.db.Query(ctx, `
		SELECT workout_type, SUM(reps)
		FROM workout_history
		WHERE address = $1
		GROUP BY workout_type
	`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[workout.Type]int)
	for rows.Next() {
		var (
			wType string
			reps  int64
		)
		if err := rows.Scan(&wType, &reps); err != nil {
			return nil, err
		}
		totals[workout.Type(wType)] = int(reps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

// List returns the most recent records of an address, newest first.
func (r *Repo) List(ctx context.Context, address string, limit int) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, address, workout_type, reps, tx_hash, created_at
		FROM workout_history
		WHERE address = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, address, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Address, &rec.Type, &rec.Reps, &rec.TxHash, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Clear removes the whole history of an address and returns the number of removed records.
func (r *Repo) Clear(ctx context.Context, address string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.clear")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_history WHERE address = $1`, address)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
