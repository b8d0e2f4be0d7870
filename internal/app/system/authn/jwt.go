package authn

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
)

// tokenClaims are the claims tallyhub reads from an identity token. The
// subject carries the provider's user id; the profile fields are optional.
type tokenClaims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 identity tokens against a shared secret.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier builds a verifier for tokens signed with secret. When
// issuer is non-empty the token's iss claim must match it.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Unauthenticated, "invalid token", err)
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, apperr.New(apperr.Unauthenticated, "invalid token")
	}

	return Identity{
		UID:     claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}
