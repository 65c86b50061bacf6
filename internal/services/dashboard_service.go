package services

import (
	"fmt"
	"time"

	"dealdesk/internal/authz"
	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
)

// dashboardFetchLimit caps how many rows feed one dashboard computation;
// the ranker cuts the result to ten anyway.
const dashboardFetchLimit = 200

// DashboardStore is the read slice the dashboard needs.
type DashboardStore interface {
	ListActive(limit int) ([]*models.Deal, error)
	ListActiveByOwner(ownerID, limit int) ([]*models.Deal, error)
}

// FlowBadge pairs a deal with its current flow classification.
type FlowBadge struct {
	Deal *models.Deal                 `json:"deal"`
	Flow lifecycle.FlowClassification `json:"flow"`
}

// RecipientStore resolves digest recipients.
type RecipientStore interface {
	GetByID(id int) (*models.User, error)
}

type DashboardService struct {
	Deals  DashboardStore
	Users  RecipientStore
	Email  EmailService
	Engine *lifecycle.Engine
	Now    func() time.Time
}

func NewDashboardService(deals DashboardStore, users RecipientStore, email EmailService, engine *lifecycle.Engine) *DashboardService {
	return &DashboardService{Deals: deals, Users: users, Email: email, Engine: engine, Now: time.Now}
}

// scope returns the deals visible to the actor: sellers see their own,
// elevated roles see the whole active book.
func (s *DashboardService) scope(userID, roleID int) ([]*models.Deal, error) {
	if authz.IsElevated(roleID) {
		return s.Deals.ListActive(dashboardFetchLimit)
	}
	return s.Deals.ListActiveByOwner(userID, dashboardFetchLimit)
}

// PriorityActions is the "what needs me right now" panel: at most ten
// items, ordered by the lifecycle ranker.
func (s *DashboardService) PriorityActions(userID, roleID int) ([]lifecycle.PriorityItem, error) {
	deals, err := s.scope(userID, roleID)
	if err != nil {
		return nil, err
	}
	records := make([]lifecycle.DealRecord, 0, len(deals))
	for _, d := range deals {
		records = append(records, d.Record())
	}
	return s.Engine.Rank(records, authz.LifecycleRole(roleID), s.Now()), nil
}

// EmailDigest mails the caller their current priority worklist. Returns
// how many items went out; zero items means no mail is sent.
func (s *DashboardService) EmailDigest(userID, roleID int) (int, error) {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("digest recipient lookup: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("digest recipient %d not found", userID)
	}
	items, err := s.PriorityActions(userID, roleID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := s.Email.SendAttentionDigest(user.Email, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// FlowBoard classifies every visible deal for dashboard badges.
func (s *DashboardService) FlowBoard(userID, roleID int) ([]FlowBadge, error) {
	deals, err := s.scope(userID, roleID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	badges := make([]FlowBadge, 0, len(deals))
	for _, d := range deals {
		badges = append(badges, FlowBadge{Deal: d, Flow: s.Engine.Classify(d.Record(), now)})
	}
	return badges, nil
}
