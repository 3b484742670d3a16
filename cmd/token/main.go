// Command token mints an EDITOR access token for the catalog API.  The
// secret is read from JWT_SECRET (a .env file is honoured).
//
//	go run ./cmd/token -sub alice -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

func main() {
	sub := flag.String("sub", "editor", "token subject")
	role := flag.String("role", utils.RoleEditor, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	logging.Init(logging.Config{Format: "console"})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logging.Fatal().Msg("JWT_SECRET is not set")
	}
	tok, err := utils.NewAccessToken(secret, *sub, *role, *ttl)
	if err != nil {
		logging.Fatal().Err(err).Msg("sign token")
	}
	fmt.Println(tok.Token)
	logging.Info().Str("sub", *sub).Str("role", *role).Time("expires", tok.Exp).Msg("token issued")
}
