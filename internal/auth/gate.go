package auth

import (
	"context"

	"github.com/jeysi05/pickle-jar-courts/internal/logger"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Role         string `json:"role"`
	ExpiresIn    int    `json:"expires_in"`
}

type Service interface {
	Login(ctx context.Context, role, secret string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// Gate checks the shared admin password and coach code against bcrypt
// hashes. A role whose hash is empty cannot log in.
type Gate struct {
	hashes    map[string]string
	jwtSecret string
}

func NewGate(adminHash, coachHash, jwtSecret string) *Gate {
	return &Gate{
		hashes: map[string]string{
			RoleAdmin: adminHash,
			RoleCoach: coachHash,
		},
		jwtSecret: jwtSecret,
	}
}

func (g *Gate) Login(_ context.Context, role, secret string) (*TokenPair, error) {
	hash, ok := g.hashes[role]
	if !ok || hash == "" || secret == "" || !CheckPassword(hash, secret) {
		logger.Warn("gate login rejected", "role", role)
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := GenerateTokens(role, g.jwtSecret)
	if err != nil {
		return nil, err
	}

	logger.Info("gate login", "role", role)
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         role,
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
	}, nil
}

func (g *Gate) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	access, claims, err := RefreshAccessToken(refreshToken, g.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken: access,
		Role:        claims.Role,
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
	}, nil
}
