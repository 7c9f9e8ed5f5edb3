package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
)

// Branch is a child billing scope. Every branch belongs to exactly one
// customer; visits and material sales may be recorded against a branch or
// directly against the customer.
type Branch struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(50);not null"`
	DisplayName string    `gorm:"type:varchar(200);not null"`
	Address     string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch under the given customer
func NewBranch(customerID uuid.UUID, code, displayName string) (*Branch, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Branch must belong to a customer")
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Code:              strings.ToUpper(code),
		DisplayName:       displayName,
	}, nil
}

// Rename updates the branch's display name
func (b *Branch) Rename(displayName string) error {
	if err := validateDisplayName(displayName); err != nil {
		return err
	}

	b.DisplayName = displayName
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}
