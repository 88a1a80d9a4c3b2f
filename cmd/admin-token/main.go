package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// admin-token mints a bearer token for the admin API. Tokens are signed with
// the configured JWT secret and expire after STOREFRONT_JWT_EXPIRATION_MINUTES.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "admin-token"})

	_ = godotenv.Load()

	subject := flag.String("subject", "", "operator identity recorded in the token (email or username)")
	role := flag.String("role", enums.ActorRoleAdmin.String(), "role claim")
	flag.Parse()

	if strings.TrimSpace(*subject) == "" {
		fmt.Fprintln(os.Stderr, "missing -subject")
		os.Exit(1)
	}
	parsedRole, err := enums.ParseActorRole(*role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -role: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	now := time.Now()
	token, err := auth.MintAccessToken(cfg.JWT, now, auth.AccessTokenPayload{
		Subject: strings.TrimSpace(*subject),
		Role:    parsedRole,
	})
	if err != nil {
		logg.Error(ctx, "failed to mint token", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"subject":    strings.TrimSpace(*subject),
		"role":       parsedRole.String(),
		"expires_at": now.Add(cfg.JWT.Expiration()).UTC().Format(time.RFC3339),
	}), "admin token minted")
	fmt.Println(token)
}
