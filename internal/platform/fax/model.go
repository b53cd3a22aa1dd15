// Package fax integrates the doctor portal with the fax provider: outbound
// sends through the provider's REST API and inbound receipt via an
// HMAC-verified webhook. Every exchange leaves a fax_records row.
package fax

import (
	"time"

	"github.com/google/uuid"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

const (
	StatusQueued    = "queued"
	StatusSending   = "sending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusReceived  = "received"
)

// Record is one row in fax_records.
type Record struct {
	ID            uuid.UUID  `json:"id"`
	ClinicID      *uuid.UUID `json:"clinic_id,omitempty"`
	Direction     string     `json:"direction"`
	ProviderFaxID *string    `json:"provider_fax_id,omitempty"`
	ToNumber      string     `json:"to_number"`
	FromNumber    string     `json:"from_number"`
	Status        string     `json:"status"`
	Pages         *int       `json:"pages,omitempty"`
	StorageKey    *string    `json:"storage_key,omitempty"`
	Error         *string    `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SendRequest is the outbound-send body. Exactly one of StorageKey (a stored
// PDF) or Text (inline cover text) must be set.
type SendRequest struct {
	ClinicID   *uuid.UUID `json:"clinic_id,omitempty"`
	ToNumber   string     `json:"to_number"`
	FromNumber string     `json:"from_number"`
	StorageKey *string    `json:"storage_key,omitempty"`
	Text       *string    `json:"text,omitempty"`
}

// InboundFax is the provider's webhook payload for a received fax.
type InboundFax struct {
	ProviderFaxID string  `json:"fax_id"`
	FromNumber    string  `json:"from_number"`
	ToNumber      string  `json:"to_number"`
	Pages         int     `json:"pages"`
	StorageKey    *string `json:"storage_key,omitempty"`
}
