package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timekeep.com/timekeep/security"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an identity token for testing",
	Long: `Signs a JWT with the TIMEKEEP_SIGNING_SECRET environment variable
(base64 encoded). The token carries the same claims the web middleware
expects, so it can be used directly against the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("TIMEKEEP_SIGNING_SECRET")
		if secret == "" {
			return errors.New("TIMEKEEP_SIGNING_SECRET is not set")
		}

		id, _ := cmd.Flags().GetUint("id")
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		expiry, _ := cmd.Flags().GetInt64("expiry")

		token, err := security.CreateIdentityToken(&security.TimekeepIdentity{
			ID:       id,
			Username: username,
			Email:    email,
			Role:     role,
		}, secret, expiry)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Uint("id", 1, "employee id")
	tokenCmd.Flags().String("username", "admin", "unique name claim")
	tokenCmd.Flags().String("email", "admin@timekeep.com", "email claim")
	tokenCmd.Flags().String("role", "Administrator", "role claim")
	tokenCmd.Flags().Int64("expiry", 86400, "token lifetime in seconds")
}
