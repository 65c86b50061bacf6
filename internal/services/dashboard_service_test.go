package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/authz"
	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
)

type fakeDashboardStore struct {
	deals []*models.Deal
}

func (f *fakeDashboardStore) ListActive(limit int) ([]*models.Deal, error) { return f.deals, nil }
func (f *fakeDashboardStore) ListActiveByOwner(ownerID, limit int) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, d := range f.deals {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeRecipients struct {
	users map[int]*models.User
}

func (f *fakeRecipients) GetByID(id int) (*models.User, error) { return f.users[id], nil }

type fakeEmail struct {
	digestTo    string
	digestItems []lifecycle.PriorityItem
}

func (f *fakeEmail) SendWelcomeEmail(email, fullName string) error { return nil }
func (f *fakeEmail) SendAttentionDigest(email string, items []lifecycle.PriorityItem) error {
	f.digestTo = email
	f.digestItems = items
	return nil
}

func newTestDashboardService(t *testing.T) (*DashboardService, *fakeDashboardStore, *fakeRecipients, *fakeEmail) {
	t.Helper()
	eng, err := lifecycle.New(lifecycle.Options{})
	require.NoError(t, err)

	store := &fakeDashboardStore{}
	users := &fakeRecipients{users: map[int]*models.User{}}
	email := &fakeEmail{}
	svc := NewDashboardService(store, users, email, eng)
	svc.Now = func() time.Time { return time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC) }
	return svc, store, users, email
}

func staleDeal(ownerID int) *models.Deal {
	changed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &models.Deal{
		ID:               1,
		OwnerID:          ownerID,
		Title:            "Acme renewal",
		Status:           "revision_requested",
		LastStatusChange: &changed,
	}
}

func TestEmailDigestUnknownRecipient(t *testing.T) {
	svc, store, _, email := newTestDashboardService(t)
	store.deals = []*models.Deal{staleDeal(5)}

	_, err := svc.EmailDigest(5, authz.RoleSeller)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, email.digestTo, "no mail goes out for an unknown recipient")
}

func TestEmailDigestSendsWorklist(t *testing.T) {
	svc, store, users, email := newTestDashboardService(t)
	store.deals = []*models.Deal{staleDeal(5)}
	users.users[5] = &models.User{ID: 5, Email: "seller@example.com"}

	sent, err := svc.EmailDigest(5, authz.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "seller@example.com", email.digestTo)
	require.Len(t, email.digestItems, 1)
	assert.Equal(t, 1, email.digestItems[0].DealID)
}

func TestEmailDigestEmptyWorklistSendsNothing(t *testing.T) {
	svc, _, users, email := newTestDashboardService(t)
	users.users[5] = &models.User{ID: 5, Email: "seller@example.com"}

	sent, err := svc.EmailDigest(5, authz.RoleSeller)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, email.digestTo)
}
