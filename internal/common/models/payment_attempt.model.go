package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
	"xtopay-checkout/internal/common/enum"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// PaymentAttempt is one initiation on a checkout session and its terminal
// outcome. Account identifiers are stored masked; this table is an audit
// ledger, not a settlement record.
type PaymentAttempt struct {
	ID              string                 `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID       string                 `json:"session_id" gorm:"type:varchar(100);not null;index"`
	Method          enum.PaymentMethodEnum `json:"method" gorm:"type:varchar(30);not null"`
	Network         string                 `json:"network" gorm:"type:varchar(30)"`
	MaskedReference string                 `json:"masked_reference" gorm:"type:varchar(50)"`
	Amount          float64                `json:"amount" gorm:"not null"`
	Currency        string                 `json:"currency" gorm:"type:varchar(3);not null;default:'GHS'"`
	BusinessName    string                 `json:"business_name" gorm:"type:varchar(255)"`
	Status          string                 `json:"status" gorm:"type:varchar(30);not null;default:'pending';index"`
	Outcome         string                 `json:"outcome" gorm:"type:varchar(30)"`
	FailureReason   string                 `json:"failure_reason" gorm:"type:text"`
	TransactionID   string                 `json:"transaction_id" gorm:"type:varchar(100)"`
	Metadata        JSONB                  `json:"metadata" gorm:"type:jsonb"`
	CreatedAt       time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt     *time.Time             `json:"completed_at"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
