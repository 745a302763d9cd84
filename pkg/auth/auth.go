package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Claims struct {
	Profile struct {
		UserID int    `json:"userId"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

// NewToken issues an HS256 token for the given user with a uuid jti.
func NewToken(key []byte, userID int, email, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	claims.Profile.UserID = userID
	claims.Profile.Email = email
	claims.Profile.Role = role

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func ParseToken(key []byte, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type contextKey int

const (
	userIDKey contextKey = iota + 1
	roleKey
)

func SetAuthContext(ctx context.Context, userID int, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

func Role(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}
