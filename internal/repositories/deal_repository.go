package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dealdesk/internal/models"
)

// ErrStatusConflict means the compare-and-set status update hit a row whose
// status had already moved on. The caller should re-read and retry.
var ErrStatusConflict = errors.New("deal status changed concurrently")

const dealColumns = `id, client_id, owner_id, title, status, priority, revision_count,
	       annual_revenue, growth_ambition, draft_expires_at, last_status_change, created_at`

type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(deal *models.Deal) (int64, error) {
	const q = `
        INSERT INTO deals (client_id, owner_id, title, status, priority, revision_count,
                           annual_revenue, growth_ambition, draft_expires_at, last_status_change, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(
		q,
		deal.ClientID,
		deal.OwnerID,
		deal.Title,
		deal.Status,
		deal.Priority,
		deal.RevisionCount,
		deal.AnnualRevenue,
		deal.GrowthAmbition,
		deal.DraftExpiresAt,
		deal.LastStatusChange,
		deal.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create deal: %w", err)
	}
	return id, nil
}

func (r *DealRepository) GetByID(id int) (*models.Deal, error) {
	q := `SELECT ` + dealColumns + ` FROM deals WHERE id=$1`
	deal := &models.Deal{}
	err := r.db.QueryRow(q, id).Scan(
		&deal.ID,
		&deal.ClientID,
		&deal.OwnerID,
		&deal.Title,
		&deal.Status,
		&deal.Priority,
		&deal.RevisionCount,
		&deal.AnnualRevenue,
		&deal.GrowthAmbition,
		&deal.DraftExpiresAt,
		&deal.LastStatusChange,
		&deal.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal by id: %w", err)
	}
	return deal, nil
}

// Update writes the editable fields. Status is deliberately excluded:
// status moves only through UpdateStatusIf.
func (r *DealRepository) Update(deal *models.Deal) error {
	const q = `
        UPDATE deals
        SET client_id=$1, owner_id=$2, title=$3, priority=$4,
            annual_revenue=$5, growth_ambition=$6, draft_expires_at=$7
        WHERE id=$8
    `
	_, err := r.db.Exec(q,
		deal.ClientID,
		deal.OwnerID,
		deal.Title,
		deal.Priority,
		deal.AnnualRevenue,
		deal.GrowthAmbition,
		deal.DraftExpiresAt,
		deal.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

func (r *DealRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM deals WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deal with id=%d not found", id)
	}
	return nil
}

// UpdateStatusIf is the atomic compare-and-set the lifecycle guard relies on:
// the write only lands if the row is still in the expected status, so two
// racing transitions cannot both succeed and skip an intermediate state.
// Moving into revision_requested bumps the revision counter in the same
// statement.
func (r *DealRepository) UpdateStatusIf(id int, expected, to string, at time.Time) error {
	const q = `
        UPDATE deals
        SET status = $1,
            last_status_change = $2,
            revision_count = revision_count + CASE WHEN $1 = 'revision_requested' THEN 1 ELSE 0 END
        WHERE id = $3 AND status = $4
    `
	result, err := r.db.Exec(q, to, at, id, expected)
	if err != nil {
		return fmt.Errorf("update deal status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deal status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *DealRepository) ListPaginated(limit, offset int) ([]*models.Deal, error) {
	q := `SELECT ` + dealColumns + `
	          FROM deals
	          ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (r *DealRepository) ListByOwner(ownerID, limit, offset int) ([]*models.Deal, error) {
	q := `SELECT ` + dealColumns + `
	          FROM deals
	          WHERE owner_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(q, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deals by owner: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

// ListActive returns every deal not in a terminal status, for dashboards.
func (r *DealRepository) ListActive(limit int) ([]*models.Deal, error) {
	q := `SELECT ` + dealColumns + `
	          FROM deals
	          WHERE status NOT IN ('signed', 'lost')
	          ORDER BY last_status_change ASC NULLS FIRST
	          LIMIT $1`
	rows, err := r.db.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("list active deals: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

// ListActiveByOwner is ListActive scoped to one seller.
func (r *DealRepository) ListActiveByOwner(ownerID, limit int) ([]*models.Deal, error) {
	q := `SELECT ` + dealColumns + `
	          FROM deals
	          WHERE owner_id = $1 AND status NOT IN ('signed', 'lost')
	          ORDER BY last_status_change ASC NULLS FIRST
	          LIMIT $2`
	rows, err := r.db.Query(q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active deals by owner: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (r *DealRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM deals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count deals by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

// FilterDeals supports the reports screen. Sort fields are allow-listed.
func (r *DealRepository) FilterDeals(status, fromDate, toDate, sortBy, order string, revenueMin, revenueMax float64, limit, offset int) ([]*models.Deal, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	allowedSortFields := map[string]bool{
		"created_at":         true,
		"annual_revenue":     true,
		"status":             true,
		"last_status_change": true,
	}
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}

	q := `SELECT ` + dealColumns + ` FROM deals WHERE 1=1`
	args := []interface{}{}
	i := 1

	if status != "" {
		q += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
		i++
	}
	if fromDate != "" {
		q += fmt.Sprintf(" AND created_at >= $%d", i)
		args = append(args, fromDate)
		i++
	}
	if toDate != "" {
		q += fmt.Sprintf(" AND created_at <= $%d", i)
		args = append(args, toDate)
		i++
	}
	if revenueMin > 0 {
		q += fmt.Sprintf(" AND annual_revenue >= $%d", i)
		args = append(args, revenueMin)
		i++
	}
	if revenueMax > 0 {
		q += fmt.Sprintf(" AND annual_revenue <= $%d", i)
		args = append(args, revenueMax)
		i++
	}

	q += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortBy, order, i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("filter deals: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

func scanDeals(rows *sql.Rows) ([]*models.Deal, error) {
	var deals []*models.Deal
	for rows.Next() {
		var d models.Deal
		if err := rows.Scan(
			&d.ID,
			&d.ClientID,
			&d.OwnerID,
			&d.Title,
			&d.Status,
			&d.Priority,
			&d.RevisionCount,
			&d.AnnualRevenue,
			&d.GrowthAmbition,
			&d.DraftExpiresAt,
			&d.LastStatusChange,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, &d)
	}
	return deals, rows.Err()
}
