package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"catalog-chat-service/internal/realtime"
)

var (
	ErrNoSecret     = errors.New("realtime secret not configured")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Capability granted by a room credential. Tokens are scoped to exactly one
// room's channel with publish+subscribe, nothing wider.
const Capability = "publish,subscribe"

// Claims is the room-scoped credential payload. Subject carries the client
// identifier.
type Claims struct {
	Channel    string `json:"channel"`
	Capability string `json:"capability"`
	jwt.RegisteredClaims
}

// Issuer mints short-lived credentials for the realtime channel.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. An empty secret is allowed here; Issue fails
// per request instead, matching the credential endpoint contract.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed credential for publish+subscribe on exactly the
// room's channel, plus its expiry.
func (i *Issuer) Issue(roomID, clientID string) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}

	exp := time.Now().Add(i.ttl)
	claims := &Claims{
		Channel:    realtime.ChannelName(roomID),
		Capability: Capability,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "catalog-chat-service",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	return signed, exp, err
}

// Verify parses a credential and checks it grants access to the room's
// channel.
func (i *Issuer) Verify(tokenString, roomID string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	switch {
	case err == nil && parsed.Valid:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}

	if claims.Channel != realtime.ChannelName(roomID) {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
