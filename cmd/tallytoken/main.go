// Command tallytoken mints HS256 bearer tokens for local development and
// testing against a tallyhub instance. Not for production use.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	var (
		secret  = flag.String("secret", "dev-only-change-me-please-0123456789ABCDEF", "HMAC secret (must match the server's auth_secret)")
		issuer  = flag.String("issuer", "", "token issuer (must match the server's auth_issuer, if set)")
		uid     = flag.String("uid", "", "subject user id (required)")
		name    = flag.String("name", "", "display name claim")
		email   = flag.String("email", "", "email claim")
		picture = flag.String("picture", "", "picture URL claim")
		ttl     = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if *uid == "" {
		log.Fatal("tallytoken: -uid is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *uid,
		"iat": now.Unix(),
		"exp": now.Add(*ttl).Unix(),
		"jti": uuid.NewString(),
	}
	if *issuer != "" {
		claims["iss"] = *issuer
	}
	if *name != "" {
		claims["name"] = *name
	}
	if *email != "" {
		claims["email"] = *email
	}
	if *picture != "" {
		claims["picture"] = *picture
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(*secret))
	if err != nil {
		log.Fatalf("tallytoken: signing failed: %v", err)
	}

	fmt.Println(signed)
}
