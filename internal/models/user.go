package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is the application-level user record, paired 1:1 with an identity
// in the auth provider. It lives in the provider-hosted profiles table and is
// read through the provider's REST interface.
type Profile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Phone     string    `bun:"phone,nullzero" json:"phone,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
