// Command issue-token signs an identity token for local testing.
//
//	JWT_SECRET=dev go run ./cmd/issue-token -role provider -verified
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/pkg/jwt"

	"github.com/google/uuid"
)

func main() {
	var (
		userID   = flag.String("user", "", "user id (random when empty)")
		role     = flag.String("role", string(identity.RoleCustomer), "customer, provider or admin")
		verified = flag.Bool("verified", false, "mark the provider as verified")
		ttl      = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fail("JWT_SECRET is required")
	}

	r, err := identity.NewRole(*role)
	if err != nil {
		fail(err.Error())
	}

	id := uuid.New()
	if *userID != "" {
		if id, err = uuid.Parse(*userID); err != nil {
			fail("invalid user id: " + err.Error())
		}
	}

	token, err := jwt.NewService(secret, *ttl).GenerateToken(identity.Caller{
		ID:               id,
		Role:             r,
		VerifiedProvider: *verified,
	})
	if err != nil {
		fail(err.Error())
	}

	fmt.Fprintf(os.Stderr, "user %s (%s)\n", id, r)
	fmt.Println(token)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "issue-token:", msg)
	os.Exit(1)
}
