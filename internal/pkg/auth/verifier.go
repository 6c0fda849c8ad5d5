package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"orderflow/internal/entities"
	"orderflow/internal/pkg/config"
)

// Claims выпускает сервис идентификации, здесь только проверяем подпись.
type Claims struct {
	jwt.RegisteredClaims
	RestaurantID string `json:"restaurantId,omitempty"`
	Role         string `json:"role,omitempty"`
}

type Verifier struct {
	key     any
	methods []string
}

func NewHMACVerifier(secret []byte) *Verifier {
	return &Verifier{
		key:     secret,
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

func NewRSAVerifier(publicKey *rsa.PublicKey) *Verifier {
	return &Verifier{
		key:     publicKey,
		methods: []string{jwt.SigningMethodRS256.Alg()},
	}
}

func NewVerifier(cfg *config.Auth) (*Verifier, error) {
	switch {
	case cfg.JWTPublicKeyPath != "":
		pem, err := os.ReadFile(cfg.JWTPublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}

		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse jwt public key: %w", err)
		}
		return NewRSAVerifier(publicKey), nil
	case cfg.JWTSecret != "":
		return NewHMACVerifier([]byte(cfg.JWTSecret)), nil
	default:
		return nil, ErrNoKey
	}
}

// Verify проверяет подпись и сроки токена без обращения к сети.
func (v *Verifier) Verify(token string) (entities.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Identity{}, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods(v.methods))
	if err != nil {
		return entities.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return entities.Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}

	return entities.Identity{
		UserID:       claims.Subject,
		RestaurantID: claims.RestaurantID,
		Role:         claims.Role,
	}, nil
}
