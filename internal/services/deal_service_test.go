package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
	"dealdesk/internal/repositories"
)

type fakeDealStore struct {
	deals    map[int]*models.Deal
	conflict bool
}

func (f *fakeDealStore) Create(d *models.Deal) (int64, error) {
	d.ID = len(f.deals) + 1
	f.deals[d.ID] = d
	return int64(d.ID), nil
}

func (f *fakeDealStore) GetByID(id int) (*models.Deal, error) {
	d, ok := f.deals[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDealStore) Update(d *models.Deal) error { f.deals[d.ID] = d; return nil }
func (f *fakeDealStore) Delete(id int) error         { delete(f.deals, id); return nil }

func (f *fakeDealStore) ListPaginated(limit, offset int) ([]*models.Deal, error) { return nil, nil }
func (f *fakeDealStore) ListByOwner(ownerID, limit, offset int) ([]*models.Deal, error) {
	return nil, nil
}

func (f *fakeDealStore) UpdateStatusIf(id int, expected, to string, at time.Time) error {
	if f.conflict {
		return repositories.ErrStatusConflict
	}
	d, ok := f.deals[id]
	if !ok || d.Status != expected {
		return repositories.ErrStatusConflict
	}
	d.Status = to
	d.LastStatusChange = &at
	if to == string(lifecycle.StatusRevisionRequested) {
		d.RevisionCount++
	}
	return nil
}

type fakeHistory struct {
	entries []*models.StatusHistoryEntry
}

func (f *fakeHistory) Append(e *models.StatusHistoryEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHistory) ListByDeal(dealID int) ([]*models.StatusHistoryEntry, error) {
	return f.entries, nil
}

func newTestDealService(t *testing.T) (*DealService, *fakeDealStore, *fakeHistory) {
	t.Helper()
	eng, err := lifecycle.New(lifecycle.Options{})
	require.NoError(t, err)

	store := &fakeDealStore{deals: map[int]*models.Deal{}}
	history := &fakeHistory{}
	svc := NewDealService(store, history, eng, nil)
	svc.Now = func() time.Time { return time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC) }
	return svc, store, history
}

func seedDeal(store *fakeDealStore, status string) *models.Deal {
	d := &models.Deal{ID: 1, OwnerID: 5, Title: "Acme renewal", Status: status}
	store.deals[1] = d
	return d
}

func TestChangeStatusAllowed(t *testing.T) {
	svc, store, history := newTestDealService(t)
	seedDeal(store, "draft")

	updated, decision, err := svc.ChangeStatus(1, lifecycle.StatusSubmitted, 5, lifecycle.RoleSeller, "ready")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, "submitted", updated.Status)
	require.NotNil(t, updated.LastStatusChange)

	require.Len(t, history.entries, 1)
	assert.Equal(t, "draft", history.entries[0].FromStatus)
	assert.Equal(t, "submitted", history.entries[0].ToStatus)
	assert.Equal(t, 5, history.entries[0].ActorID)
	assert.Equal(t, "ready", history.entries[0].Comment)
}

func TestChangeStatusDeniedIsDataNotError(t *testing.T) {
	svc, store, history := newTestDealService(t)
	seedDeal(store, "under_review")

	deal, decision, err := svc.ChangeStatus(1, lifecycle.StatusApproved, 5, lifecycle.RoleSeller, "")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
	// сделка не тронута
	assert.Equal(t, "under_review", deal.Status)
	assert.Empty(t, history.entries)
}

func TestChangeStatusConflictSurfaces(t *testing.T) {
	svc, store, _ := newTestDealService(t)
	seedDeal(store, "submitted")
	store.conflict = true

	_, _, err := svc.ChangeStatus(1, lifecycle.StatusUnderReview, 2, lifecycle.RoleApprover, "")
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)
}

func TestChangeStatusNotFound(t *testing.T) {
	svc, _, _ := newTestDealService(t)
	_, _, err := svc.ChangeStatus(99, lifecycle.StatusSubmitted, 1, lifecycle.RoleAdmin, "")
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestChangeStatusBumpsRevisionCount(t *testing.T) {
	svc, store, _ := newTestDealService(t)
	seedDeal(store, "under_review")

	updated, decision, err := svc.ChangeStatus(1, lifecycle.StatusRevisionRequested, 2, lifecycle.RoleApprover, "needs numbers")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	assert.Equal(t, 1, updated.RevisionCount)
}

func TestAvailableTransitions(t *testing.T) {
	svc, store, _ := newTestDealService(t)
	seedDeal(store, "approved")

	got, err := svc.AvailableTransitions(1, lifecycle.RoleLegal)
	require.NoError(t, err)
	assert.Equal(t, []lifecycle.Status{lifecycle.StatusContractDrafting, lifecycle.StatusLost}, got)

	got, err = svc.AvailableTransitions(1, lifecycle.RoleSeller)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateDefaultsToDraft(t *testing.T) {
	svc, _, _ := newTestDealService(t)
	deal := &models.Deal{OwnerID: 5, Title: "new"}
	_, err := svc.Create(deal)
	require.NoError(t, err)
	assert.Equal(t, "draft", deal.Status)
	assert.Equal(t, "medium", deal.Priority)
	assert.False(t, deal.CreatedAt.IsZero())
	require.NotNil(t, deal.LastStatusChange)
}
