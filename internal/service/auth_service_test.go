package service

import (
	"testing"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/model"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		BcryptCost:    4, // minimum cost, keep the test fast
	}
	return NewAuthService(cfg, nil)
}

func TestResolveTokenLifetime(t *testing.T) {
	cases := []struct {
		name       string
		envMinutes string
		configured time.Duration
		want       time.Duration
	}{
		{"env wins", "5", 15 * time.Minute, 5 * time.Minute},
		{"config when no env", "", 15 * time.Minute, 15 * time.Minute},
		{"garbage env falls through", "soon", 15 * time.Minute, 15 * time.Minute},
		{"non-positive env falls through", "0", 15 * time.Minute, 15 * time.Minute},
		{"default when nothing set", "", 0, defaultTokenLifetime},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := resolveTokenLifetime(c.envMinutes, c.configured); got != c.want {
				t.Errorf("resolveTokenLifetime(%q, %s) = %s, want %s", c.envMinutes, c.configured, got, c.want)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"goals:read", "roles:read", "goals:read", "goals:write", "roles:read"})
	want := []string{"goals:read", "roles:read", "goals:write"}
	if len(got) != len(want) {
		t.Fatalf("dedupe returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupe[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPasswordHashRoundtrip(t *testing.T) {
	s := testAuthService()

	hash, err := s.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := s.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword on correct password: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong-pass"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword on wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	s := testAuthService()

	user := &model.User{ID: "user-42", Email: "teacher@example.com"}
	roles := []model.Role{
		{Name: "Teacher"},
		{Name: "Retired", IsDeleted: true},
	}
	perms := []string{"assignments:read", "goals:read", "assignments:read"}

	tokenStr, err := s.GenerateAccessToken(user, roles, perms)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("Subject = %s, want user-42", claims.Subject)
	}
	if claims.Email != "teacher@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Teacher" {
		t.Errorf("Roles = %v, want [Teacher] (deleted roles skipped)", claims.Roles)
	}
	if len(claims.Permissions) != 2 {
		t.Errorf("Permissions = %v, want deduplicated pair", claims.Permissions)
	}
	if claims.ID == "" {
		t.Error("token ID (jti) not set")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := testAuthService()
	tokenStr, err := s.GenerateAccessToken(&model.User{ID: "user-1", Email: "a@b.c"}, nil, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewAuthService(&config.Config{JWTSecret: "different-secret", JWTExpiry: time.Minute}, nil)
	if _, err := other.ValidateToken(tokenStr); err == nil {
		t.Error("token signed with another secret should not validate")
	}

	if _, err := s.ValidateToken("not-a-jwt"); err == nil {
		t.Error("malformed token should not validate")
	}
}

func TestOpaqueTokenUniqueness(t *testing.T) {
	a, err := opaqueToken()
	if err != nil {
		t.Fatalf("opaqueToken: %v", err)
	}
	b, err := opaqueToken()
	if err != nil {
		t.Fatalf("opaqueToken: %v", err)
	}
	if a == b {
		t.Error("two opaque tokens should never collide")
	}
	if len(a) != 43 { // 32 random bytes, base64url without padding
		t.Errorf("token length = %d, want 43", len(a))
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	s := testAuthService()
	pw, err := s.GenerateTemporaryPassword()
	if err != nil {
		t.Fatalf("GenerateTemporaryPassword: %v", err)
	}
	if len(pw) != 12 { // 9 random bytes, base64url without padding
		t.Errorf("password length = %d, want 12", len(pw))
	}
}
