package repositories

import (
	"database/sql"
	"fmt"

	"dealdesk/internal/models"
)

// StatusHistoryRepository appends and reads the immutable status audit trail.
type StatusHistoryRepository struct {
	db *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

func (r *StatusHistoryRepository) Append(entry *models.StatusHistoryEntry) error {
	const q = `
        INSERT INTO deal_status_history (deal_id, from_status, to_status, actor_id, comment, changed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(q,
		entry.DealID,
		entry.FromStatus,
		entry.ToStatus,
		entry.ActorID,
		entry.Comment,
		entry.ChangedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

func (r *StatusHistoryRepository) ListByDeal(dealID int) ([]*models.StatusHistoryEntry, error) {
	const q = `
        SELECT id, deal_id, from_status, to_status, actor_id, comment, changed_at
        FROM deal_status_history
        WHERE deal_id = $1
        ORDER BY changed_at ASC, id ASC
    `
	rows, err := r.db.Query(q, dealID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var entries []*models.StatusHistoryEntry
	for rows.Next() {
		var e models.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.Comment, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
