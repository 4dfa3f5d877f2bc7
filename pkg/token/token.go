package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the session binding issued by the identity service. RoomId and
// VideoId are empty for users that have not created a room yet.
type Claims struct {
	UserId  string
	IsAdmin bool
	RoomId  string
	VideoId string
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the signature and expiry of a raw HS256 token and decodes
// the session claims. The zero values of optional claims are preserved.
func (v Verifier) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return v.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserId:  stringClaim(mapClaims, "userId"),
		IsAdmin: boolClaim(mapClaims, "isAdmin"),
		RoomId:  stringClaim(mapClaims, "roomId"),
		VideoId: stringClaim(mapClaims, "videoId"),
	}, nil
}

// Sign issues a token carrying the given claims. The identity service is
// the real issuer; this is used by tooling and tests.
func (v Verifier) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":  claims.UserId,
		"isAdmin": claims.IsAdmin,
		"roomId":  claims.RoomId,
		"videoId": claims.VideoId,
	})

	return t.SignedString(v.secret)
}

func stringClaim(m jwt.MapClaims, key string) string {
	value, ok := m[key].(string)
	if !ok {
		return ""
	}

	return value
}

func boolClaim(m jwt.MapClaims, key string) bool {
	value, ok := m[key].(bool)
	if !ok {
		return false
	}

	return value
}
