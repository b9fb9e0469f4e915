package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"salescrm/internal/domain"
	"salescrm/internal/domain/points"
	"salescrm/internal/repository"
)

// Service handles the lead lifecycle: creation with the reserve credit,
// the monitoring lock, status transitions with the won transfer, and the
// assignment registry. Every operation that touches the lead together
// with a balance runs inside one gorm transaction.
type Service struct {
	db            *gorm.DB
	leads         *Repository
	employees     *repository.EmployeeRepository
	campaigns     *repository.CampaignRepository
	products      *repository.ProductRepository
	lookups       *repository.LookupRepository
	conversations *repository.ConversationRepository
	points        *points.Service
}

func NewService(
	db *gorm.DB,
	leads *Repository,
	employees *repository.EmployeeRepository,
	campaigns *repository.CampaignRepository,
	products *repository.ProductRepository,
	lookups *repository.LookupRepository,
	conversations *repository.ConversationRepository,
	pointsSvc *points.Service,
) *Service {
	return &Service{
		db:            db,
		leads:         leads,
		employees:     employees,
		campaigns:     campaigns,
		products:      products,
		lookups:       lookups,
		conversations: conversations,
		points:        pointsSvc,
	}
}

// CreateLead creates a manual lead and applies the creation credit to
// the creating agent's reserve balance.
func (s *Service) CreateLead(ctx context.Context, tenantID, creatorID int64, req *CreateLeadRequest) (*Lead, error) {
	l, product, err := s.buildLead(ctx, tenantID, creatorID, req)
	if err != nil {
		return nil, err
	}
	l.Source = SourceManual

	if err := s.createWithCredit(ctx, l, product, creatorID); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLeadFromConversation derives a lead from an inbox conversation.
// A conversation yields at most one lead.
func (s *Service) CreateLeadFromConversation(ctx context.Context, tenantID, creatorID int64, req *CreateFromConversationRequest) (*Lead, error) {
	conv, err := s.conversations.GetByID(ctx, tenantID, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	existing, err := s.leads.GetByConversation(ctx, tenantID, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConversationHasLead
	}

	l, product, err := s.buildLead(ctx, tenantID, creatorID, &req.CreateLeadRequest)
	if err != nil {
		return nil, err
	}
	l.Source = SourceInbox
	l.ConversationID = &req.ConversationID
	if l.CustomerName == "" {
		l.CustomerName = conv.CustomerName
	}
	if l.CustomerPhone == "" {
		l.CustomerPhone = conv.CustomerPhone
	}

	if err := s.createWithCredit(ctx, l, product, creatorID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConversationHasLead
		}
		return nil, err
	}
	return l, nil
}

// GetByID returns a lead within the tenant
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*Lead, error) {
	l, err := s.leads.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

// List returns leads with optional status and campaign filters
func (s *Service) List(ctx context.Context, tenantID int64, status *Status, campaignID *int64, limit, offset int) ([]Lead, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.leads.List(ctx, tenantID, status, campaignID, limit, offset)
}

// UpdateStatus transitions the lead. The first status-changing write by
// an actor on an unclaimed lead claims the monitoring lock as a side
// effect; entering won for the first time moves the product's lead
// points from the creator's reserve to main in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, leadID int64, status Status, actorID int64, bypass bool) (*Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var out *Lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.leads.WithTx(tx)

		l, err := repo.GetByIDForUpdate(ctx, tenantID, leadID)
		if err != nil {
			return err
		}
		if l == nil {
			return ErrLeadNotFound
		}

		if l.IsClaimed() && !l.OwnedBy(actorID) && !bypass {
			return ErrMonitoringHeld
		}

		if l.CampaignID != nil {
			campaign, err := s.campaigns.GetByID(ctx, tenantID, *l.CampaignID)
			if err != nil {
				return err
			}
			if campaign == nil {
				return ErrCampaignNotFound
			}
			if !campaign.ActiveAt(time.Now()) {
				return ErrCampaignClosed
			}
		}

		if status == l.Status {
			out = l
			return nil
		}

		if !l.IsClaimed() {
			claimed, err := repo.ClaimMonitoring(ctx, tenantID, leadID, actorID, time.Now())
			if err != nil {
				return err
			}
			if !claimed && !bypass {
				return ErrMonitoringHeld
			}
		}

		settled := false
		if status == StatusWon && !l.IsWon() && !l.PointsSettled && l.ProductID != nil {
			product, err := s.products.GetByID(ctx, tenantID, *l.ProductID)
			if err != nil {
				return err
			}
			if product != nil && product.LeadPoints.IsPositive() {
				if err := s.points.WithTx(tx).TransferReserveToMain(ctx, l.CreatorID, product.LeadPoints); err != nil {
					return err
				}
				settled = true
			}
		}

		if err := repo.UpdateStatus(ctx, tenantID, leadID, status, settled); err != nil {
			return err
		}

		out, err = repo.GetByID(ctx, tenantID, leadID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransferMonitoring hands the lock to another lead manager. Only the
// current owner or a bypass role may transfer; claim-by-acting is the
// only path to first ownership.
func (s *Service) TransferMonitoring(ctx context.Context, tenantID, leadID, actorID, newOwnerID int64, bypass bool) (*Lead, error) {
	l, err := s.leads.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	if !l.IsClaimed() {
		return nil, ErrNotClaimed
	}
	if !l.OwnedBy(actorID) && !bypass {
		return nil, ErrNotMonitoringOwner
	}
	if newOwnerID == *l.MonitoringOwnerID {
		return nil, ErrInvalidTransferTarget
	}

	target, err := s.employees.GetByID(ctx, tenantID, newOwnerID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Role != domain.RoleLeadManager {
		return nil, ErrInvalidTransferTarget
	}

	if err := s.leads.TransferMonitoring(ctx, tenantID, leadID, newOwnerID, time.Now()); err != nil {
		return nil, err
	}
	return s.leads.GetByID(ctx, tenantID, leadID)
}

// AssignAgents replaces the set of agents assigned to the lead
func (s *Service) AssignAgents(ctx context.Context, tenantID, leadID int64, employeeIDs []int64) error {
	l, err := s.leads.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrLeadNotFound
	}

	found, err := s.employees.GetByIDs(ctx, tenantID, employeeIDs)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(found))
	for _, e := range found {
		known[e.ID] = true
	}
	for _, id := range employeeIDs {
		if !known[id] {
			return ErrEmployeeNotFound
		}
	}

	return s.leads.ReplaceAssignments(ctx, tenantID, leadID, employeeIDs)
}

// UnassignAgent removes one agent from the lead
func (s *Service) UnassignAgent(ctx context.Context, tenantID, leadID, employeeID int64) error {
	l, err := s.leads.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrLeadNotFound
	}
	return s.leads.DeleteAssignment(ctx, tenantID, leadID, employeeID)
}

// Assignments lists the agents assigned to a lead
func (s *Service) Assignments(ctx context.Context, tenantID, leadID int64) ([]Assignment, error) {
	return s.leads.ListAssignments(ctx, tenantID, leadID)
}

// buildLead validates the referenced entities and assembles the row.
// All lookups happen before any write starts.
func (s *Service) buildLead(ctx context.Context, tenantID, creatorID int64, req *CreateLeadRequest) (*Lead, *domain.Product, error) {
	creator, err := s.employees.GetByID(ctx, tenantID, creatorID)
	if err != nil {
		return nil, nil, err
	}
	if creator == nil {
		return nil, nil, ErrEmployeeNotFound
	}

	if req.CampaignID != nil {
		campaign, err := s.campaigns.GetByID(ctx, tenantID, *req.CampaignID)
		if err != nil {
			return nil, nil, err
		}
		if campaign == nil {
			return nil, nil, ErrCampaignNotFound
		}
		if !campaign.ActiveAt(time.Now()) {
			return nil, nil, ErrCampaignClosed
		}
	}

	var product *domain.Product
	if req.ProductID != nil {
		product, err = s.products.GetByID(ctx, tenantID, *req.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, ErrProductNotFound
		}
	}

	if req.CategoryID != nil {
		category, err := s.lookups.GetCategory(ctx, tenantID, *req.CategoryID)
		if err != nil {
			return nil, nil, err
		}
		if category == nil {
			return nil, nil, ErrCategoryNotFound
		}
	}

	if req.InterestID != nil {
		interest, err := s.lookups.GetInterest(ctx, tenantID, *req.InterestID)
		if err != nil {
			return nil, nil, err
		}
		if interest == nil {
			return nil, nil, ErrInterestNotFound
		}
	}

	l := &Lead{
		TenantID:      tenantID,
		Title:         req.Title,
		Description:   req.Description,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Value:         req.Value,
		Status:        StatusNew,
		CategoryID:    req.CategoryID,
		InterestID:    req.InterestID,
		CampaignID:    req.CampaignID,
		ProductID:     req.ProductID,
		CreatorID:     creatorID,
	}

	l.PurchasePrice = nullDecimal(req.PurchasePrice)
	l.SalePrice = nullDecimal(req.SalePrice)
	if req.PurchasePrice != nil && req.SalePrice != nil {
		profit := req.SalePrice.Sub(*req.PurchasePrice)
		l.Profit = decimal.NewNullDecimal(profit)
	} else {
		l.Profit = nullDecimal(req.Profit)
	}

	return l, product, nil
}

// createWithCredit inserts the lead and, when the product defines a
// positive lead-point value, credits the creator's reserve in the same
// transaction.
func (s *Service) createWithCredit(ctx context.Context, l *Lead, product *domain.Product, creatorID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.leads.WithTx(tx).Create(ctx, l); err != nil {
			return err
		}
		if product != nil && product.LeadPoints.IsPositive() {
			if err := s.points.WithTx(tx).CreditReserve(ctx, creatorID, product.LeadPoints); err != nil {
				return err
			}
		}
		return nil
	})
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed") || strings.Contains(msg, "constraint failed")
}
