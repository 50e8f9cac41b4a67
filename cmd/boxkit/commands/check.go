package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd validates the configuration end to end: it authenticates,
// resolves the shared test user, and prints both identities.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured session",
	Long:  `Authenticate with the configured credentials, resolve the shared test user, and print the resulting session identities.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		session := ctrl.Session()

		account, err := session.Admin().GetCurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching service account: %w", err)
		}

		result := map[string]interface{}{
			"serviceAccount": account,
			"testUserID":     session.UserID(),
			"createdUser":    session.CreatedUser(),
		}

		prettyJSON, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))

		// A user created just for this check should not linger.
		ctrl.Shutdown(cmd.Context())
		return nil
	},
}

// GetCheckCmd returns the check command
func GetCheckCmd() *cobra.Command {
	return checkCmd
}
