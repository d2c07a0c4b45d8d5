package main

import (
	"fmt"
	"time"

	"grocer-service/internal/config"
	"grocer-service/internal/domain/user"
	"grocer-service/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

// newTokenCmd mints a bearer token for local testing against the API.
func newTokenCmd() *cobra.Command {
	var (
		name string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Sign a development JWT for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required")
			}
			if role != user.RoleUser && role != user.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", user.RoleUser, user.RoleAdmin)
			}
			if ttl == 0 {
				ttl = cfg.JWTTTL
			}

			token, _, err := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, ttl).Generate(args[0], name, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name carried in the token")
	cmd.Flags().StringVar(&role, "role", user.RoleUser, "user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TTL)")
	return cmd
}
