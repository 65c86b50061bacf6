package services

import (
	"errors"
	"log"
	"time"

	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
)

var ErrDealNotFound = errors.New("deal not found")

// DealStore is the slice of the repository the deal service needs.
type DealStore interface {
	Create(deal *models.Deal) (int64, error)
	GetByID(id int) (*models.Deal, error)
	Update(deal *models.Deal) error
	Delete(id int) error
	ListPaginated(limit, offset int) ([]*models.Deal, error)
	ListByOwner(ownerID, limit, offset int) ([]*models.Deal, error)
	UpdateStatusIf(id int, expected, to string, at time.Time) error
}

// HistoryStore appends the status audit trail.
type HistoryStore interface {
	Append(entry *models.StatusHistoryEntry) error
	ListByDeal(dealID int) ([]*models.StatusHistoryEntry, error)
}

// TransitionNotifier is pinged after a committed status change. Best-effort:
// failures are logged, never returned.
type TransitionNotifier interface {
	NotifyStatusChange(deal *models.Deal, from, to lifecycle.Status)
}

type DealService struct {
	Repo     DealStore
	History  HistoryStore
	Engine   *lifecycle.Engine
	Notifier TransitionNotifier // may be nil

	// Now is injectable so status timing is deterministic under test.
	Now func() time.Time
}

func NewDealService(repo DealStore, history HistoryStore, engine *lifecycle.Engine, notifier TransitionNotifier) *DealService {
	return &DealService{
		Repo:     repo,
		History:  history,
		Engine:   engine,
		Notifier: notifier,
		Now:      time.Now,
	}
}

func (s *DealService) Create(deal *models.Deal) (int64, error) {
	if deal.Status == "" {
		deal.Status = string(lifecycle.StatusDraft)
	}
	if deal.Priority == "" {
		deal.Priority = string(lifecycle.PriorityMedium)
	}
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = s.Now()
	}
	if deal.LastStatusChange == nil {
		ts := deal.CreatedAt
		deal.LastStatusChange = &ts
	}
	return s.Repo.Create(deal)
}

func (s *DealService) GetByID(id int) (*models.Deal, error) {
	return s.Repo.GetByID(id)
}

func (s *DealService) Update(deal *models.Deal) error {
	return s.Repo.Update(deal)
}

func (s *DealService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func (s *DealService) ListPaginated(limit, offset int) ([]*models.Deal, error) {
	return s.Repo.ListPaginated(limit, offset)
}

func (s *DealService) ListMy(ownerID, limit, offset int) ([]*models.Deal, error) {
	return s.Repo.ListByOwner(ownerID, limit, offset)
}

// AvailableTransitions returns the statuses the role can move the deal to,
// for "change status" dropdowns.
func (s *DealService) AvailableTransitions(id int, role lifecycle.Role) ([]lifecycle.Status, error) {
	deal, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}
	return s.Engine.Guard.AvailableTransitions(lifecycle.Status(deal.Status), role), nil
}

// ChangeStatus runs the full guarded transition: consult the guard, apply
// the change with a compare-and-set on the expected current status, append
// the audit entry, ping the notifier. A denied transition is a normal
// outcome returned as data; only store faults come back as errors.
func (s *DealService) ChangeStatus(id int, to lifecycle.Status, actorID int, role lifecycle.Role, comment string) (*models.Deal, lifecycle.TransitionDecision, error) {
	deal, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, lifecycle.TransitionDecision{}, err
	}
	if deal == nil {
		return nil, lifecycle.TransitionDecision{}, ErrDealNotFound
	}

	from := lifecycle.Status(deal.Status)
	decision := s.Engine.Guard.CanTransition(from, to, role)
	if !decision.Allowed {
		return deal, decision, nil
	}

	now := s.Now()
	if err := s.Repo.UpdateStatusIf(id, string(from), string(to), now); err != nil {
		// including ErrStatusConflict: the row moved under us
		return nil, decision, err
	}

	if s.History != nil {
		entry := &models.StatusHistoryEntry{
			DealID:     id,
			FromStatus: string(from),
			ToStatus:   string(to),
			ActorID:    actorID,
			Comment:    comment,
			ChangedAt:  now,
		}
		if err := s.History.Append(entry); err != nil {
			log.Printf("[deal][status] warning: history append failed for deal=%d: %v", id, err)
		}
	}

	updated, err := s.Repo.GetByID(id)
	if err != nil || updated == nil {
		return nil, decision, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyStatusChange(updated, from, to)
	}
	return updated, decision, nil
}

// StatusHistory returns the audit trail for one deal.
func (s *DealService) StatusHistory(id int) ([]*models.StatusHistoryEntry, error) {
	return s.History.ListByDeal(id)
}
