package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a purchasable item in the catalog
type Product struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	PriceUSDC decimal.Decimal `db:"price_usdc" json:"price_usdc"`
	ImagePath string          `db:"image_path" json:"image_path"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

// MerchantAccount is a provider-side account capable of receiving payin
// proceeds. Fetched fresh from the gateway on every purchase, never cached.
type MerchantAccount struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Status       string `json:"status"`
	IsAPIEnabled bool   `json:"isApiEnabled"`
}

// Merchant account statuses
const (
	AccountStatusActive = "ACTIVE"
)

// PayinResult is the provider's response to a create-payin request. Status
// and Instructions are provider-defined variant payloads; only the fields we
// read ourselves are validated, the rest is passed through verbatim.
type PayinResult struct {
	ID           string                 `json:"id"`
	Status       map[string]interface{} `json:"payinStatus"`
	Instructions map[string]interface{} `json:"payinInstructions"`
}

// PayinAttempt is the local reconciliation record for a purchase attempt.
// Indeterminate marks attempts where the payin POST failed after the request
// may have reached the provider, so a payin may or may not exist upstream.
type PayinAttempt struct {
	ID            int64     `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	PayinID       string    `db:"payin_id" json:"payin_id,omitempty"`
	Outcome       string    `db:"outcome" json:"outcome"`
	Reason        string    `db:"reason" json:"reason,omitempty"`
	Indeterminate bool      `db:"indeterminate" json:"indeterminate"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// Payin attempt outcomes
const (
	AttemptOutcomeSucceeded = "SUCCEEDED"
	AttemptOutcomeFailed    = "FAILED"
)

// PurchaseOutcome is the normalized result of one purchase orchestration.
// Success is true only when the gateway returned a PayinResult; on any
// earlier failure none of the payin fields are populated.
type PurchaseOutcome struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	PayinID       string                 `json:"payin_id,omitempty"`
	PayinStatus   map[string]interface{} `json:"payin_status,omitempty"`
	Instructions  map[string]interface{} `json:"payin_instructions,omitempty"`
	FiatAmountCOP *float64               `json:"fiat_amount_cop,omitempty"`
}
