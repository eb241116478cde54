package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is a company administrator login.
type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID           uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	CompanyID    uuid.UUID  `bun:"company_id,type:uuid,notnull" json:"company_id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Name         string     `bun:"name" json:"name"`
	Roles        []string   `bun:"roles,type:text[]" json:"roles"`
	TokenVersion int        `bun:"token_version,notnull,default:0" json:"token_version"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	LastLoginAt  *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
}

type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens"`

	ID         uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	AccountID  uuid.UUID `bun:"account_id,type:uuid,notnull" json:"account_id"`
	JTI        string    `bun:"jti,notnull" json:"jti"`
	TokenHash  string    `bun:"token_hash,notnull" json:"token_hash"`
	DeviceInfo *string   `bun:"device_info" json:"device_info,omitempty"`
	Revoked    bool      `bun:"revoked,notnull,default:false" json:"revoked"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	ExpiresAt  time.Time `bun:"expires_at,notnull" json:"expires_at"`
}
