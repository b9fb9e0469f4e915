package conversion

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"salescrm/internal/domain"
	"salescrm/internal/domain/lead"
	"salescrm/internal/domain/points"
	"salescrm/internal/repository"
)

const minPasswordLen = 8

// Service turns a won lead into a processing client plus a pending
// approval request. Identity creation is deferred: the approval request
// carries the password hash until the external approval step consumes
// it.
type Service struct {
	db            *gorm.DB
	leads         *lead.Repository
	products      *repository.ProductRepository
	conversations *repository.ConversationRepository
	clients       *repository.ClientRepository
	points        *points.Service
}

func NewService(
	db *gorm.DB,
	leads *lead.Repository,
	products *repository.ProductRepository,
	conversations *repository.ConversationRepository,
	clients *repository.ClientRepository,
	pointsSvc *points.Service,
) *Service {
	return &Service{
		db:            db,
		leads:         leads,
		products:      products,
		conversations: conversations,
		clients:       clients,
		points:        pointsSvc,
	}
}

// Actor identifies the converting agent.
type Actor struct {
	UserID     int64
	EmployeeID int64
	Bypass     bool
}

// Convert runs the conversion workflow. All preconditions are checked
// before any write; the client, the approval request, the lead stamp
// and the conversion credit then commit as one unit.
func (s *Service) Convert(ctx context.Context, tenantID, leadID int64, actor Actor, req *ConvertRequest) (*domain.Client, error) {
	l, err := s.leads.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	if l.IsClaimed() && !l.OwnedBy(actor.EmployeeID) && !actor.Bypass {
		return nil, ErrNotMonitoringOwner
	}
	if !l.IsWon() {
		return nil, ErrLeadNotWon
	}
	if l.IsConverted() {
		return nil, ErrAlreadyConverted
	}

	var conv *domain.Conversation
	if l.ConversationID != nil {
		conv, err = s.conversations.GetByID(ctx, tenantID, *l.ConversationID)
		if err != nil {
			return nil, err
		}
	}

	email := req.Email
	if email == "" && conv != nil {
		email = conv.CustomerEmail
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	if len(req.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	customerPoints := decimal.Zero
	if l.ProductID != nil {
		product, err := s.products.GetByID(ctx, tenantID, *l.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			customerPoints = product.CustomerPoints
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		TenantID:    tenantID,
		Name:        clientName(req, l),
		Email:       email,
		Phone:       clientPhone(req, l),
		Status:      domain.ClientProcessing,
		ContactInfo: contactInfo(conv, req, email),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leadRepo := s.leads.WithTx(tx)

		locked, err := leadRepo.GetByIDForUpdate(ctx, tenantID, leadID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrLeadNotFound
		}
		if locked.IsConverted() {
			return ErrAlreadyConverted
		}

		if err := s.clients.WithTx(tx).Create(ctx, client); err != nil {
			return err
		}

		approval := &ClientApprovalRequest{
			TenantID:              tenantID,
			LeadID:                leadID,
			ClientID:              client.ID,
			RequestedByUserID:     actor.UserID,
			RequestedByEmployeeID: actor.EmployeeID,
			Email:                 email,
			PasswordHash:          string(hash),
			CustomerPoints:        customerPoints,
			Status:                ApprovalPending,
		}
		if err := tx.Create(approval).Error; err != nil {
			return err
		}

		stamped, err := leadRepo.MarkConverted(ctx, tenantID, leadID, client.ID)
		if err != nil {
			return err
		}
		if !stamped {
			return ErrAlreadyConverted
		}

		// Converting an unclaimed lead claims it, mirroring the
		// implicit claim on the first status change.
		if !locked.IsClaimed() {
			if _, err := leadRepo.ClaimMonitoring(ctx, tenantID, leadID, actor.EmployeeID, time.Now()); err != nil {
				return err
			}
		}

		if customerPoints.IsPositive() {
			if err := s.points.WithTx(tx).CreditReserve(ctx, actor.EmployeeID, customerPoints); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

// ApprovalForLead returns the approval request created for a lead, if
// any. Read-only; the approval process itself lives elsewhere.
func (s *Service) ApprovalForLead(ctx context.Context, tenantID, leadID int64) (*ClientApprovalRequest, error) {
	var req ClientApprovalRequest
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func clientName(req *ConvertRequest, l *lead.Lead) string {
	if req.Name != "" {
		return req.Name
	}
	return l.CustomerName
}

func clientPhone(req *ConvertRequest, l *lead.Lead) string {
	if req.Phone != "" {
		return req.Phone
	}
	return l.CustomerPhone
}

// contactInfo merges the conversation's platform identifiers with the
// caller-supplied overrides; caller-supplied email wins.
func contactInfo(conv *domain.Conversation, req *ConvertRequest, email string) string {
	info := map[string]string{"email": email}
	if conv != nil {
		info["platform"] = conv.Platform
		info["platform_user_id"] = conv.PlatformUserID
		if conv.CustomerPhone != "" {
			info["phone"] = conv.CustomerPhone
		}
	}
	if req.Phone != "" {
		info["phone"] = req.Phone
	}

	blob, err := json.Marshal(info)
	if err != nil {
		return ""
	}
	return string(blob)
}
