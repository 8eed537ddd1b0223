package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

const defaultRunListLimit = 20

// ReminderRunRepository stores the audit trail of reminder runs.
type ReminderRunRepository interface {
	Create(ctx context.Context, run *domain.ReminderRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.ReminderRun, error)
	ListDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error)
}

type reminderRunRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRunRepository builds repository.
func NewReminderRunRepository(pool *pgxpool.Pool) ReminderRunRepository {
	return &reminderRunRepository{pool: pool}
}

func (r *reminderRunRepository) Create(ctx context.Context, run *domain.ReminderRun) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const runQuery = `
        INSERT INTO reminder_runs (id, started_at, finished_at, ticket_count, people_count, sent, skipped, failed)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := tx.Exec(ctx, runQuery,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.TicketCount,
		run.PeopleCount,
		run.Sent,
		run.Skipped,
		run.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	const deliveryQuery = `
        INSERT INTO reminder_deliveries (run_id, seq, person, channel, kind, status, reason, delivered_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	batch := &pgx.Batch{}
	for i, d := range run.Deliveries {
		batch.Queue(deliveryQuery, run.ID, i, d.Person, d.Channel, d.Kind, d.Status, d.Reason, d.At)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert deliveries: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *reminderRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	const query = `
        SELECT id, started_at, finished_at, ticket_count, people_count, sent, skipped, failed
        FROM reminder_runs ORDER BY started_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReminderRun
	for rows.Next() {
		var run domain.ReminderRun
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.TicketCount,
			&run.PeopleCount,
			&run.Sent,
			&run.Skipped,
			&run.Failed,
		); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

func (r *reminderRunRepository) ListDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error) {
	const query = `
        SELECT person, channel, kind, status, reason, delivered_at
        FROM reminder_deliveries WHERE run_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := rows.Scan(&d.Person, &d.Channel, &d.Kind, &d.Status, &d.Reason, &d.At); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
