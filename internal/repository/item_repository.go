package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ErrAlreadyDecided indicates a moderation decision on an item that has
// already left the pending state.
var ErrAlreadyDecided = errors.New("item already decided")

// ItemRepository encapsulates persistence for lost and found reports. Lost
// and found items live in two parallel tables; every method takes the kind
// to select the table and its date column.
type ItemRepository interface {
	// Create inserts the item and increments the reporter's items_reported
	// counter in a single transaction.
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.Item, error)
	ListByStatus(ctx context.Context, kind domain.ItemKind, status domain.ItemStatus) ([]domain.Item, error)
	IncrementViews(ctx context.Context, kind domain.ItemKind, id string) error
	// Accept transitions a pending item to accepted and, iff the item has a
	// reporter, awards points and increments items_accepted — all in one
	// transaction. Returns pgx.ErrNoRows for unknown ids and
	// ErrAlreadyDecided for items outside the pending state.
	Accept(ctx context.Context, kind domain.ItemKind, id string, points int) (*domain.Item, error)
	// Reject transitions a pending item to rejected under the same guard.
	Reject(ctx context.Context, kind domain.ItemKind, id string) error
}

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository instantiates repository.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

func tableFor(kind domain.ItemKind) (table, dateCol string) {
	if kind == domain.ItemKindFound {
		return "found_items", "date_found"
	}
	return "lost_items", "date_lost"
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	table, dateCol := tableFor(item.Kind)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`
        INSERT INTO %s (title, category, description, location, %s, image_data, image_mime, status, reported_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, views, created_at, updated_at`, table, dateCol)

	if err := tx.QueryRow(ctx, query,
		item.Title,
		item.Category,
		item.Description,
		item.Location,
		item.EventDate,
		item.ImageData,
		item.ImageMime,
		item.Status,
		item.ReportedBy,
	).Scan(&item.ID, &item.Views, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return err
	}

	if item.ReportedBy != nil {
		cmd, err := tx.Exec(ctx,
			`UPDATE users SET items_reported=items_reported+1, updated_at=NOW() WHERE id=$1`,
			*item.ReportedBy)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
	}

	return tx.Commit(ctx)
}

func (r *itemRepository) GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.Item, error) {
	table, dateCol := tableFor(kind)
	query := fmt.Sprintf(`
        SELECT i.id, i.title, i.category, i.description, i.location, i.%s,
               i.image_data, i.image_mime, i.status, i.reported_by, i.views,
               i.created_at, i.updated_at, u.name, u.email
        FROM %s i LEFT JOIN users u ON u.id = i.reported_by
        WHERE i.id=$1`, dateCol, table)

	var item domain.Item
	item.Kind = kind
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Category,
		&item.Description,
		&item.Location,
		&item.EventDate,
		&item.ImageData,
		&item.ImageMime,
		&item.Status,
		&item.ReportedBy,
		&item.Views,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ReporterName,
		&item.ReporterEmail,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListByStatus(ctx context.Context, kind domain.ItemKind, status domain.ItemStatus) ([]domain.Item, error) {
	table, dateCol := tableFor(kind)
	query := fmt.Sprintf(`
        SELECT i.id, i.title, i.category, i.description, i.location, i.%s,
               i.image_mime, i.status, i.reported_by, i.views,
               i.created_at, i.updated_at, u.name, u.email
        FROM %s i LEFT JOIN users u ON u.id = i.reported_by
        WHERE i.status=$1
        ORDER BY i.%s DESC`, dateCol, table, dateCol)

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Item
	for rows.Next() {
		var item domain.Item
		item.Kind = kind
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Category,
			&item.Description,
			&item.Location,
			&item.EventDate,
			&item.ImageMime,
			&item.Status,
			&item.ReportedBy,
			&item.Views,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.ReporterName,
			&item.ReporterEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *itemRepository) IncrementViews(ctx context.Context, kind domain.ItemKind, id string) error {
	table, _ := tableFor(kind)
	query := fmt.Sprintf(`UPDATE %s SET views=views+1 WHERE id=$1`, table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) Accept(ctx context.Context, kind domain.ItemKind, id string, points int) (*domain.Item, error) {
	table, _ := tableFor(kind)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The status guard makes a second accept a no-op instead of a second
	// award, and the transaction keeps status and points all-or-nothing.
	query := fmt.Sprintf(`
        UPDATE %s SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING reported_by`, table)

	var reportedBy *string
	if err := tx.QueryRow(ctx, query, domain.ItemStatusAccepted, id, domain.ItemStatusPending).Scan(&reportedBy); err != nil {
		if err == pgx.ErrNoRows {
			return nil, r.classifyMiss(ctx, kind, id)
		}
		return nil, err
	}

	if reportedBy != nil {
		cmd, err := tx.Exec(ctx,
			`UPDATE users SET points=points+$1, items_accepted=items_accepted+1, updated_at=NOW() WHERE id=$2`,
			points, *reportedBy)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, pgx.ErrNoRows
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, kind, id)
}

func (r *itemRepository) Reject(ctx context.Context, kind domain.ItemKind, id string) error {
	table, _ := tableFor(kind)
	query := fmt.Sprintf(`
        UPDATE %s SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`, table)

	cmd, err := r.pool.Exec(ctx, query, domain.ItemStatusRejected, id, domain.ItemStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.classifyMiss(ctx, kind, id)
	}
	return nil
}

// classifyMiss distinguishes an unknown id from an item that already holds
// a terminal status.
func (r *itemRepository) classifyMiss(ctx context.Context, kind domain.ItemKind, id string) error {
	table, _ := tableFor(kind)
	var status domain.ItemStatus
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT status FROM %s WHERE id=$1`, table), id).Scan(&status)
	if err != nil {
		return err
	}
	return ErrAlreadyDecided
}
