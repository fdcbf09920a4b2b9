// Command token mints a PASETO bearer token for operators and local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joefazee/settle/app"
	"github.com/joefazee/settle/internal/security"
)

func main() {
	subject := flag.String("subject", "", "account id the token authenticates")
	roles := flag.String("roles", "", "comma separated roles, e.g. admin,oracle")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to AUTH_TOKEN_TTL")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Couldn't load configuration: %v", err)
	}

	maker, err := security.NewPasetoMaker(cfg.Auth.SymmetricKey)
	if err != nil {
		log.Fatalf("Couldn't create token maker: %v", err)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, payload, err := maker.CreateToken(*subject, splitRoles(*roles), lifetime)
	if err != nil {
		log.Fatalf("Couldn't create token: %v", err)
	}

	log.Printf("token for %s expires at %s", payload.Subject, payload.ExpiredAt)
	fmt.Println(token)
}

func splitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
