package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeys(t *testing.T) *config.Config {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	return &config.Config{JWTPrivateKeyPath: privPath, JWTPublicKeyPath: pubPath, JWTExpiry: time.Hour}
}

func TestSignVerify(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	tok, err := p.Sign("admin-1", domain.RoleAdmin, "sess-1")
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, issuer, claims.Issuer)
}

// signRaw signs arbitrary claims with the provider's own key.
func signRaw(t *testing.T, p *Provider, c *Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, c).SignedString(p.privateKey)
	require.NoError(t, err)
	return tok
}

func validRegistered() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "admin-1",
		ID:        "sess-1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	_, err = p.Verify(signRaw(t, p, &Claims{Role: "student", RegisteredClaims: validRegistered()}))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}

func TestVerify_RejectsMissingSession(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	rc := validRegistered()
	rc.ID = ""
	_, err = p.Verify(signRaw(t, p, &Claims{Role: domain.RoleStaff, RegisteredClaims: rc}))
	assert.Error(t, err)
}

func TestVerify_RejectsForeignIssuer(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	rc := validRegistered()
	rc.Issuer = "someone-else"
	_, err = p.Verify(signRaw(t, p, &Claims{Role: domain.RoleAdmin, RegisteredClaims: rc}))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	rc := validRegistered()
	rc.ExpiresAt = nil
	_, err = p.Verify(signRaw(t, p, &Claims{Role: domain.RoleAdmin, RegisteredClaims: rc}))
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestVerify_RejectsForeignKey(t *testing.T) {
	p1, err := NewProvider(writeKeys(t))
	require.NoError(t, err)
	p2, err := NewProvider(writeKeys(t))
	require.NoError(t, err)

	tok, err := p1.Sign("admin-1", domain.RoleAdmin, "sess-1")
	require.NoError(t, err)
	_, err = p2.Verify(tok)
	assert.Error(t, err)
}

func TestVerify_RejectsHMAC(t *testing.T) {
	p, err := NewProvider(writeKeys(t))
	require.NoError(t, err)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{AdminID: "x"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = p.Verify(tok)
	assert.Error(t, err)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTPrivateKeyPath: "/nonexistent.pem"})
	assert.Error(t, err)

	_, err = NewProvider(&config.Config{})
	assert.ErrorContains(t, err, "not configured")
}
