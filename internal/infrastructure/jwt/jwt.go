package jwtinfra

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "campus-portal"

// Claims is the dashboard bearer payload. The admin id travels as the
// registered subject and the session id as the token id, so AdminID and
// SessionID are filled in from those after parsing.
type Claims struct {
	Role      string `json:"role"`
	AdminID   string `json:"-"`
	SessionID string `json:"-"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims check.
func (c *Claims) Validate() error {
	if !domain.ValidRole(c.Role) {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	if c.Subject == "" || c.ID == "" {
		return fmt.Errorf("token has no subject or session")
	}
	return nil
}

// Provider signs and verifies dashboard sessions with an RSA key pair.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
	parser     *jwt.Parser
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privPEM, err := readKey(cfg.JWTPrivateKeyPath, "private")
	if err != nil {
		return nil, err
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	pubPEM, err := readKey(cfg.JWTPublicKeyPath, "public")
	if err != nil {
		return nil, err
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Provider{
		privateKey: privKey,
		publicKey:  pubKey,
		expiry:     cfg.JWTExpiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

func readKey(path, kind string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s key path not configured", kind)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s key: %w", kind, err)
	}
	return b, nil
}

// Sign issues a bearer for one admin session.
func (p *Provider) Sign(adminID, role, sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   adminID,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := p.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return p.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims.AdminID = claims.Subject
	claims.SessionID = claims.ID
	return claims, nil
}
