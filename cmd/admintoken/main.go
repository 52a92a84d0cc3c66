// admintoken prints a signed admin JWT for the directory write API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bizdir/backend/internal/config"
	"github.com/bizdir/backend/internal/security"
)

func main() {
	if _, err := config.LoadDotEnvUp(8); err != nil {
		fmt.Fprintln(os.Stderr, "env file:", err)
		os.Exit(2)
	}

	var (
		subject = flag.String("subject", "", "who the token is issued to")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is required")
		os.Exit(2)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(2)
	}

	token, claims, err := security.NewJWTManager(secret, *ttl).Issue(*subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "jti=%s expires=%s\n", claims.ID, claims.ExpiresAt.Time.Format(time.RFC3339))
	fmt.Println(token)
}
