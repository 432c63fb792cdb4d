// Package domain contains persistence models for membership levels, members
// and the payment ledger the tax pipeline reconciles into.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TaxMeta is the per-level AvaTax mapping, edited on the level admin form and
// read by the request builder when assembling line items. ItemCode and
// TaxCode are distinct fields with a single resolution order.
type TaxMeta struct {
	ItemCode string `json:"item"`
	TaxCode  string `json:"taxcode"`
}

// Level is a membership/subscription level.
type Level struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	Name           string       `gorm:"type:text;not null;uniqueIndex"`
	Description    string       `gorm:"type:text"`
	Price          float64      `gorm:"not null;default:0"`
	RecurringPrice float64      `gorm:"column:recurring_price;not null;default:0"`
	Recurring      bool         `gorm:"not null;default:false"`
	TaxItemCode    string       `gorm:"column:tax_item_code;type:text"`
	TaxCode        string       `gorm:"column:tax_code;type:text"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Level) TableName() string { return "levels" }

func (l *Level) TaxMeta() TaxMeta {
	return TaxMeta{ItemCode: l.TaxItemCode, TaxCode: l.TaxCode}
}

// Member is a registered member with the stored address used as ship-to on
// commit transactions.
type Member struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Email      string       `gorm:"type:text;not null;uniqueIndex"`
	Line1      string       `gorm:"column:address_line1;type:text"`
	Line2      string       `gorm:"column:address_line2;type:text"`
	City       string       `gorm:"type:text"`
	Region     string       `gorm:"type:text"`
	PostalCode string       `gorm:"column:postal_code;type:text"`
	Country    string       `gorm:"type:text"`
	VATID      string       `gorm:"column:vat_id;type:text"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Member) TableName() string { return "members" }

// AddressFields exposes the stored address in the raw-mapping shape the
// address normalizer consumes.
func (m *Member) AddressFields() map[string]string {
	return map[string]string{
		"line1":       m.Line1,
		"line2":       m.Line2,
		"city":        m.City,
		"region":      m.Region,
		"postal_code": m.PostalCode,
		"country":     m.Country,
	}
}

// PaymentStatus mirrors the host payment system's lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusComplete PaymentStatus = "complete"
)

// Payment is one row of the payment ledger. Its ID doubles as the document
// code for the committed tax transaction.
type Payment struct {
	ID        snowflake.ID  `gorm:"primaryKey"`
	MemberID  snowflake.ID  `gorm:"column:member_id;not null;index"`
	LevelName string        `gorm:"column:level_name;type:text;not null"`
	Amount    float64       `gorm:"not null"`
	Currency  string        `gorm:"type:text;not null"`
	Status    PaymentStatus `gorm:"type:text;not null"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string { return "payments" }

// Meta keys written by the tax recorder. Exactly one of the two is written
// per payment, immediately after finalization, and never mutated afterwards.
const (
	MetaKeyTaxDetails = "tax_details"
	MetaKeyTaxRequest = "tax_request"
)

// PaymentMeta is arbitrary keyed metadata attached to a payment.
type PaymentMeta struct {
	ID        snowflake.ID   `gorm:"primaryKey"`
	PaymentID snowflake.ID   `gorm:"column:payment_id;not null;index:idx_payment_meta_key,unique"`
	Key       string         `gorm:"column:meta_key;type:text;not null;index:idx_payment_meta_key,unique"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PaymentMeta) TableName() string { return "payment_meta" }
