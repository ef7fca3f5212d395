package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any email/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// defaultTokenLifetime applies when neither the environment override nor the
// configured value yields a usable duration.
const defaultTokenLifetime = 30 * time.Minute

// Claims extends JWT standard claims with identity and authorization data.
// The permission set is a snapshot of current bindings, resolved at mint
// time; it goes stale only for the token's own lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Email       string   `json:"email"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// AuthService handles password hashing, access-token minting, and the
// refresh-token lifecycle.
type AuthService struct {
	cfg         *config.Config
	refreshRepo *repository.RefreshTokenRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, refreshRepo *repository.RefreshTokenRepository) *AuthService {
	return &AuthService{cfg: cfg, refreshRepo: refreshRepo}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateAccessToken creates a signed JWT for a user. Roles and permissions
// come from the caller (the RBAC resolver) so the claim set mirrors current
// bindings; duplicates are collapsed before embedding.
func (s *AuthService) GenerateAccessToken(user *model.User, roles []model.Role, permissions []string) (string, error) {
	now := time.Now()

	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		if !r.IsDeleted {
			roleNames = append(roleNames, r.Name)
		}
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTokenLifetime())),
		},
		Email:       user.Email,
		Roles:       roleNames,
		Permissions: dedupe(permissions),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// AccessTokenLifetime resolves the token lifetime: environment override,
// then configuration, then the 30-minute default. Parse failures fall
// through silently; this path never errors.
func (s *AuthService) AccessTokenLifetime() time.Duration {
	return resolveTokenLifetime(os.Getenv("JWT_EXPIRY_MINUTES"), s.cfg.JWTExpiry)
}

func resolveTokenLifetime(envMinutes string, configured time.Duration) time.Duration {
	if envMinutes != "" {
		if n, err := strconv.Atoi(envMinutes); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	if configured > 0 {
		return configured
	}
	return defaultTokenLifetime
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// GenerateRefreshToken creates and stores an opaque refresh token for a
// user. The insert goes straight to the refresh-token table, not through
// the User aggregate, so it cannot trip the user's version check.
func (s *AuthService) GenerateRefreshToken(ctx context.Context, userID, ip string) (*model.RefreshToken, error) {
	value, err := opaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	token := &model.RefreshToken{
		UserID:      userID,
		Token:       value,
		ExpiresAt:   time.Now().Add(s.cfg.RefreshExpiry),
		CreatedByIP: ip,
	}
	if err := s.refreshRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// RotateRefreshToken revokes the presented token and issues a replacement.
// The old token must still be active.
func (s *AuthService) RotateRefreshToken(ctx context.Context, tokenValue, ip string) (*model.RefreshToken, error) {
	old, err := s.refreshRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	if !old.IsActive(time.Now()) {
		return nil, ErrInvalidCredentials
	}

	old.Revoke(ip, "rotated", time.Now())
	if err := s.refreshRepo.SaveRevocation(ctx, old); err != nil {
		return nil, fmt.Errorf("revoke old token: %w", err)
	}

	return s.GenerateRefreshToken(ctx, old.UserID, ip)
}

// RevokeRefreshToken revokes a token. Revoking an already-revoked token is
// a successful no-op.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, tokenValue, ip, reason string) error {
	token, err := s.refreshRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		return err
	}
	if token.IsRevoked() {
		return nil
	}
	token.Revoke(ip, reason, time.Now())
	return s.refreshRepo.SaveRevocation(ctx, token)
}

// GetRefreshToken looks up a token by its opaque value.
func (s *AuthService) GetRefreshToken(ctx context.Context, tokenValue string) (*model.RefreshToken, error) {
	return s.refreshRepo.GetByToken(ctx, tokenValue)
}

// GenerateTemporaryPassword produces a short random password for
// admin-created accounts. The account is flagged must_change_password.
func (s *AuthService) GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// opaqueToken returns a 256-bit URL-safe random string.
func opaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// dedupe collapses duplicate permission keys while preserving order.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
