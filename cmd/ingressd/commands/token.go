package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/ingressd/pkg/api/auth"
	"github.com/marmos91/ingressd/pkg/config"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a control API access token",
	Long: `Issue a signed access token for the control API.

The token is signed with the configured auth secret, so the command must run
against the same configuration as the server.

Examples:
  # Issue an admin token
  ingressd token

  # Issue a read-only token for a named caller
  ingressd token --subject ci-probe --role viewer`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "admin", "Token role claim")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if cfg.Auth.Secret == "" {
		return fmt.Errorf("no auth secret configured; set auth.secret or INGRESSD_AUTH_SECRET")
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:              cfg.Auth.Secret,
		Issuer:              cfg.Auth.Issuer,
		AccessTokenDuration: cfg.Auth.TokenDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	token, err := jwtService.GenerateAccessToken(tokenSubject, tokenRole)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}
