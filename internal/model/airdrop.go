package model

import "time"

// Airdrop is a tracked campaign the user works through daily.
type Airdrop struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	URL           string    `json:"url" db:"url"`
	AirdropTypeID *int64    `json:"airdrop_type_id,omitempty" db:"airdrop_type_id"`
	Chain         *string   `json:"chain,omitempty" db:"chain"`
	WalletAddress *string   `json:"wallet_address,omitempty" db:"wallet_address"`
	Position      int64     `json:"position" db:"position"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// AirdropDraft is the user input for a new airdrop. The store assigns
// the id and position.
type AirdropDraft struct {
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	AirdropTypeID *int64  `json:"airdrop_type_id,omitempty"`
	Chain         *string `json:"chain,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Active        bool    `json:"active"`
}

// AirdropPatch is a partial update. Nil fields are left untouched.
type AirdropPatch struct {
	Name          *string `json:"name,omitempty"`
	URL           *string `json:"url,omitempty"`
	AirdropTypeID *int64  `json:"airdrop_type_id,omitempty"`
	Chain         *string `json:"chain,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p AirdropPatch) IsEmpty() bool {
	return p.Name == nil && p.URL == nil && p.AirdropTypeID == nil &&
		p.Chain == nil && p.WalletAddress == nil && p.Notes == nil &&
		p.Active == nil
}

// OrderItem is one entry of a reorder request.
type OrderItem struct {
	ID       int64 `json:"id"`
	Position int64 `json:"position"`
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString returns nil for a blank string and a pointer otherwise.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
