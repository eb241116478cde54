package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"geoserv-bknd/internal/auth"
	"geoserv-bknd/internal/config"
	"geoserv-bknd/internal/logger"
	"geoserv-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db   *bun.DB
	jwt  *auth.JWTManager
	cfg  *config.Config
	logr *logger.Logger
}

func NewAuthService(db *bun.DB, jwt *auth.JWTManager, cfg *config.Config, logr *logger.Logger) *AuthService {
	return &AuthService{db: db, jwt: jwt, cfg: cfg, logr: logr}
}

// HashPassword uses bcrypt
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type AccountInfo struct {
	ID        string   `json:"id"`
	CompanyID string   `json:"company_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
}

type RegisterRequest struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone,omitempty"`
	AdminEmail   string `json:"admin_email"`
	AdminName    string `json:"admin_name"`
	Password     string `json:"password"`
}

// Register creates a company and its first admin account in one transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Company, *AccountInfo, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	company := &models.Company{
		Name:         req.CompanyName,
		Slug:         slugify(req.CompanyName),
		ContactEmail: req.ContactEmail,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if req.Phone != "" {
		company.Phone = &req.Phone
	}

	account := &models.Account{
		Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		PasswordHash: hash,
		Name:         req.AdminName,
		Roles:        []string{"admin"},
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(company).Exec(ctx); err != nil {
			return fmt.Errorf("insert company: %w", err)
		}
		account.CompanyID = company.ID
		if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	info := &AccountInfo{
		ID:        account.ID.String(),
		CompanyID: company.ID.String(),
		Email:     account.Email,
		Name:      account.Name,
		Roles:     account.Roles,
	}
	return company, info, nil
}

// Login authenticates an admin account with email + password.
func (s *AuthService) Login(ctx context.Context, email, password, deviceInfo string) (*auth.TokenPair, *AccountInfo, error) {
	var a models.Account
	err := s.db.NewSelect().Model(&a).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("invalid credentials")
		}
		return nil, nil, err
	}
	if err := ComparePassword(a.PasswordHash, password); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	// update last_login
	now := time.Now().UTC()
	_, _ = s.db.NewUpdate().Model((*models.Account)(nil)).
		Set("last_login_at = ?", now).
		Where("id = ?", a.ID).
		Exec(ctx)

	pair, err := s.jwt.GenerateTokenPair(a.ID.String(), a.CompanyID.String(), s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL, a.TokenVersion, a.Roles)
	if err != nil {
		return nil, nil, err
	}

	if err := s.storeRefreshToken(ctx, a.ID, pair.RefreshToken, pair.RefreshExp, pair.JTI, deviceInfo); err != nil {
		return nil, nil, err
	}

	info := &AccountInfo{
		ID:        a.ID.String(),
		CompanyID: a.CompanyID.String(),
		Email:     a.Email,
		Name:      a.Name,
		Roles:     a.Roles,
	}
	return pair, info, nil
}

// storeRefreshToken stores refresh token hashed and enforces 2 sessions per account
func (s *AuthService) storeRefreshToken(ctx context.Context, accountID uuid.UUID, refreshToken string, expiresAt time.Time, jti string, deviceInfo string) error {
	// 1) cleanup expired tokens for account
	_, _ = s.db.NewDelete().Model((*models.RefreshToken)(nil)).Where("account_id = ? AND expires_at < now()", accountID).Exec(ctx)

	// 2) enforce max 2 active sessions (non-revoked & not expired)
	var count int
	err := s.db.NewSelect().ColumnExpr("count(*)").Table("refresh_tokens").Where("account_id = ? AND revoked = false AND expires_at > now()", accountID).Scan(ctx, &count)
	if err == nil && count >= 2 {
		toRemove := count - 1
		if toRemove <= 0 {
			toRemove = 1
		}
		_, _ = s.db.NewDelete().Model((*models.RefreshToken)(nil)).
			Where("id IN (SELECT id FROM refresh_tokens WHERE account_id = ? AND revoked = false AND expires_at > now() ORDER BY created_at ASC LIMIT ?)", accountID, toRemove).
			Exec(ctx)
	}

	hashed := auth.HashToken(refreshToken)
	rt := models.RefreshToken{
		AccountID:  accountID,
		JTI:        jti,
		TokenHash:  hashed,
		DeviceInfo: &deviceInfo,
		Revoked:    false,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  expiresAt,
	}
	_, err = s.db.NewInsert().Model(&rt).Exec(ctx)
	return err
}

// Refresh verifies the refresh JWT, finds its DB record by JTI & hash, and rotates it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, deviceInfo string) (*auth.TokenPair, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims["typ"] != string(auth.RefreshToken) {
		return nil, fmt.Errorf("not a refresh token")
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token jti")
	}

	hashed := auth.HashToken(refreshToken)

	var rt models.RefreshToken
	err = s.db.NewSelect().Model(&rt).Where("jti = ? AND token_hash = ? AND revoked = false AND expires_at > now()", jti, hashed).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh token not found or revoked")
	}

	var a models.Account
	err = s.db.NewSelect().Model(&a).Where("id = ?", rt.AccountID).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}

	// rotate: revoke old token and issue a new pair
	_, _ = s.db.NewUpdate().Model((*models.RefreshToken)(nil)).Set("revoked = true").Where("id = ?", rt.ID).Exec(ctx)

	pair, err := s.jwt.GenerateTokenPair(a.ID.String(), a.CompanyID.String(), s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL, a.TokenVersion, a.Roles)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, a.ID, pair.RefreshToken, pair.RefreshExp, pair.JTI, deviceInfo); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes a refresh token by JTI.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return err
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return fmt.Errorf("invalid jti")
	}
	_, err = s.db.NewUpdate().Model((*models.RefreshToken)(nil)).Set("revoked = true").Where("jti = ?", jti).Exec(ctx)
	return err
}

func (s *AuthService) CheckTokenVersion(ctx context.Context, accountID string, tokenVersion int) (bool, error) {
	var a models.Account
	err := s.db.NewSelect().Model(&a).Where("id = ?", accountID).Scan(ctx)
	if err != nil {
		return false, err
	}
	return a.TokenVersion == tokenVersion, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
