package fieldops

import (
	"time"

	"github.com/google/uuid"
	"github.com/pestops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialSaleStatus represents the lifecycle state of a material sale
type MaterialSaleStatus string

const (
	MaterialSaleStatusDraft    MaterialSaleStatus = "draft"
	MaterialSaleStatusApproved MaterialSaleStatus = "approved"
	MaterialSaleStatusInvoiced MaterialSaleStatus = "invoiced"
	MaterialSaleStatusPaid     MaterialSaleStatus = "paid"
)

// SaleLine is a single product line of a material sale. VATRate is nil when
// the source product record carries no rate; the invoice grouper substitutes
// the default rate in that case.
type SaleLine struct {
	shared.BaseEntity
	MaterialSaleID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName    string           `gorm:"type:varchar(200);not null"`
	Quantity       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Unit           string           `gorm:"type:varchar(20);not null;default:'pcs'"`
	UnitPrice      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	VATRate        *decimal.Decimal `gorm:"type:decimal(8,4)"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "material_sale_lines"
}

// MaterialSale is a sale of pest-control materials to a customer, optionally
// at a branch. The sale carries its own resolved total; the pricing resolver
// is never consulted for material sales.
type MaterialSale struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	BranchID    *uuid.UUID         `gorm:"type:uuid;index"`
	OccurredAt  time.Time          `gorm:"not null;index"`
	Status      MaterialSaleStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Lines       []SaleLine         `gorm:"foreignKey:MaterialSaleID"`
}

// TableName returns the table name for GORM
func (MaterialSale) TableName() string {
	return "material_sales"
}

// NewMaterialSale creates a new draft material sale
func NewMaterialSale(customerID uuid.UUID, branchID *uuid.UUID, occurredAt time.Time) (*MaterialSale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Material sale must belong to a customer")
	}
	if occurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Material sale date cannot be empty")
	}

	return &MaterialSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		BranchID:          branchID,
		OccurredAt:        occurredAt,
		Status:            MaterialSaleStatusDraft,
		TotalAmount:       decimal.Zero,
	}, nil
}

// AddLine appends a product line and recomputes the sale total
func (s *MaterialSale) AddLine(productName string, quantity decimal.Decimal, unit string, unitPrice decimal.Decimal, vatRate *decimal.Decimal) error {
	if s.Status != MaterialSaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to a draft sale")
	}
	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	s.Lines = append(s.Lines, SaleLine{
		BaseEntity:     shared.NewBaseEntity(),
		MaterialSaleID: s.ID,
		ProductName:    productName,
		Quantity:       quantity,
		Unit:           unit,
		UnitPrice:      unitPrice,
		VATRate:        vatRate,
	})
	s.TotalAmount = s.TotalAmount.Add(quantity.Mul(unitPrice))
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Approve marks the sale as approved for billing
func (s *MaterialSale) Approve() error {
	if s.Status != MaterialSaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft sales can be approved")
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Sale without lines cannot be approved")
	}

	s.Status = MaterialSaleStatusApproved
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkInvoiced marks the sale as invoiced; it drops out of unbilled reports
func (s *MaterialSale) MarkInvoiced() error {
	if s.Status != MaterialSaleStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved sales can be invoiced")
	}

	s.Status = MaterialSaleStatusInvoiced
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkPaid marks the sale as paid
func (s *MaterialSale) MarkPaid() error {
	if s.Status != MaterialSaleStatusInvoiced {
		return shared.NewDomainError("INVALID_STATE", "Only invoiced sales can be marked paid")
	}

	s.Status = MaterialSaleStatusPaid
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}
