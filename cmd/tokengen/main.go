// Package main issues bearer tokens for local development and manual
// testing against a running storefront.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/cmd"
	"storefront/internal/adapters/out/jwtauth"
	"storefront/internal/core/domain/model/identity"
)

func main() {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	flag.StringVar(&subject, "sub", "", "subject id the token is issued to (required)")
	flag.StringVar(&role, "role", string(identity.RoleOperator), "role claim: admin, operator or customer")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		fail(err)
	}

	parsedRole, err := identity.ParseRole(role)
	if err != nil {
		fail(err)
	}
	actor, err := identity.NewActor(subject, parsedRole)
	if err != nil {
		fail(err)
	}

	issuer, err := jwtauth.NewIssuer(configs.JWTSecret, configs.JWTIssuer)
	if err != nil {
		fail(err)
	}
	token, err := issuer.Issue(actor, ttl)
	if err != nil {
		fail(err)
	}
	fmt.Println(token)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
