package fieldops

import (
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
)

// VisitStatus represents the lifecycle state of a service visit
type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "scheduled"
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusCancelled VisitStatus = "cancelled"
)

// Visit is a technician service visit at a customer site. Only completed
// visits are billable; the billing engine prices them against the current
// pricing rules of the customer/branch pair.
type Visit struct {
	shared.BaseAggregateRoot
	CustomerID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	BranchID     *uuid.UUID  `gorm:"type:uuid;index"`
	OccurredAt   time.Time   `gorm:"not null;index"`
	Status       VisitStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	ReportNumber string      `gorm:"type:varchar(50)"`
	Technician   string      `gorm:"type:varchar(100)"`
	Notes        string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Visit) TableName() string {
	return "visits"
}

// NewVisit schedules a new visit for a customer, optionally at a branch
func NewVisit(customerID uuid.UUID, branchID *uuid.UUID, occurredAt time.Time) (*Visit, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Visit must belong to a customer")
	}
	if occurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Visit date cannot be empty")
	}

	return &Visit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		BranchID:          branchID,
		OccurredAt:        occurredAt,
		Status:            VisitStatusScheduled,
	}, nil
}

// Complete marks the visit as completed and records the report number
func (v *Visit) Complete(reportNumber string) error {
	if v.Status == VisitStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled visit cannot be completed")
	}
	if v.Status == VisitStatusCompleted {
		return shared.NewDomainError("ALREADY_COMPLETED", "Visit is already completed")
	}

	v.Status = VisitStatusCompleted
	v.ReportNumber = reportNumber
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// Cancel marks the visit as cancelled
func (v *Visit) Cancel() error {
	if v.Status == VisitStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed visit cannot be cancelled")
	}

	v.Status = VisitStatusCancelled
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// IsCompleted returns true if the visit is completed
func (v *Visit) IsCompleted() bool {
	return v.Status == VisitStatusCompleted
}
