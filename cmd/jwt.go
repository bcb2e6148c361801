package main

import (
	"context"
	"fmt"
	"linkvault/internal/config"
	"linkvault/pkg/logger"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// JWTCommand constructs the 'jwt' subcommand that mints a signed RS256 JWT
// for development. The subject is the user ID that owns the bookmarks and must
// be a UUID; a random one is generated when --subject is omitted.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Generates a bearer token for a user",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			subject, _ := cmd.Flags().GetString("subject")
			TTL, _ := cmd.Flags().GetDuration("ttl")

			userID := uuid.New()
			if subject != "" {
				var err error
				if userID, err = uuid.Parse(subject); err != nil {
					logger.Fatal(ctx, "subject must be a UUID", zap.String("subject", subject), zap.Error(err))
				}
			}

			key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.JWT.PrivateKey))
			if err != nil {
				logger.Fatal(ctx, "could not parse RSA private key", zap.Error(err))
			}

			now := time.Now()
			claims := jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
			}
			signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
			if err != nil {
				logger.Fatal(ctx, "could not sign JWT", zap.Error(err))
			}

			// the token goes to stdout so it can be captured by scripts
			fmt.Fprintf(os.Stderr, "user: %s\n", userID) //nolint: forbidigo
			fmt.Println(signed)                          //nolint: forbidigo
		},
	}

	cmd.Flags().String("subject", "", "User ID (UUID) to put in the token subject, random when empty")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")

	return cmd
}
