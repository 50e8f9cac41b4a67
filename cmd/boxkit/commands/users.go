package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watfordsuzy/boxkit/pkg/box"
)

func init() {
	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(deleteUserCmd)

	createUserCmd.Flags().StringP("name", "n", "", "name of the app user to be created")
	_ = createUserCmd.MarkFlagRequired("name")

	deleteUserCmd.Flags().StringP("id", "i", "", "ID of the user to be deleted")
	_ = deleteUserCmd.MarkFlagRequired("id")
	deleteUserCmd.Flags().BoolP("force", "f", false, "delete the user's content too")
}

var userCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage test users",
}

// GetUsersCmd returns the users command
func GetUsersCmd() *cobra.Command {
	return userCmd
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an app user",
	Long:  "Create a platform-access-only app user with the given name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")

		user, err := ctrl.Session().Admin().CreateUser(cmd.Context(), box.CreateUserRequest{
			Name:                 name,
			IsPlatformAccessOnly: true,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	Long:  "Delete a user left behind by a failed teardown",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		force, _ := cmd.Flags().GetBool("force")

		if err := ctrl.Session().Admin().DeleteUser(cmd.Context(), id, force); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		fmt.Printf("deleted user %s\n", id)
		return nil
	},
}
