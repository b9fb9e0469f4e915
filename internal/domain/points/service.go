package points

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salescrm/internal/domain"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// Service mutates the two per-employee incentive accumulators. Only
// relative operations are exposed; there is no "set balance". Callers
// running a lead-lifecycle transaction bind the service to it with
// WithTx so the balance write commits or rolls back with the rest of
// the unit.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithTx returns a service bound to the given transaction handle.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx}
}

// CreditReserve adds amount to the employee's reserve balance.
func (s *Service) CreditReserve(ctx context.Context, employeeID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	emp, err := s.lockEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&domain.Employee{}).
		Where("id = ?", emp.ID).
		Update("reserve_points", emp.ReservePoints.Add(amount)).Error
}

// TransferReserveToMain moves amount from reserve to main in one write,
// so reserve+main is conserved. The reserve is allowed to go negative
// here; well-formed data nets non-negative because the same amount was
// credited at lead creation.
func (s *Service) TransferReserveToMain(ctx context.Context, employeeID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	emp, err := s.lockEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&domain.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]interface{}{
			"reserve_points": emp.ReservePoints.Sub(amount),
			"main_points":    emp.MainPoints.Add(amount),
		}).Error
}

// Balances returns the employee's current reserve and main balances.
func (s *Service) Balances(ctx context.Context, tenantID, employeeID int64) (decimal.Decimal, decimal.Decimal, error) {
	var emp domain.Employee
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", employeeID, tenantID).
		First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, decimal.Zero, ErrEmployeeNotFound
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return emp.ReservePoints, emp.MainPoints, nil
}

func (s *Service) lockEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", employeeID).
		First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}
