package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/resources"
)

func init() {
	folderCmd.AddCommand(createFolderCmd)
	folderCmd.AddCommand(deleteFolderCmd)

	createFolderCmd.Flags().StringP("name", "n", "", "name of the folder to be created")
	_ = createFolderCmd.MarkFlagRequired("name")
	createFolderCmd.Flags().StringP("parent", "p", resources.RootFolderID, "ID of the parent folder")
	createFolderCmd.Flags().Bool("admin", false, "create in the service account instead of the test user")

	deleteFolderCmd.Flags().StringP("id", "i", "", "ID of the folder to be deleted")
	_ = deleteFolderCmd.MarkFlagRequired("id")
	deleteFolderCmd.Flags().Bool("admin", false, "delete from the service account instead of the test user")
}

var folderCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage test folders",
}

// GetFoldersCmd returns the folders command
func GetFoldersCmd() *cobra.Command {
	return folderCmd
}

// clientForFlags picks the admin or test-user client handle.
func clientForFlags(cmd *cobra.Command) box.Client {
	if admin, _ := cmd.Flags().GetBool("admin"); admin {
		return ctrl.Session().Admin()
	}
	return ctrl.Session().User()
}

var createFolderCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		parent, _ := cmd.Flags().GetString("parent")

		folder, err := clientForFlags(cmd).CreateFolder(cmd.Context(), box.CreateFolderRequest{
			Name:   name,
			Parent: box.ItemReference{ID: parent},
		})
		if err != nil {
			return fmt.Errorf("error creating folder: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(folder, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var deleteFolderCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a folder recursively",
	Long:  "Delete a folder (and its contents) left behind by a failed teardown",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")

		if err := clientForFlags(cmd).DeleteFolder(cmd.Context(), id, true); err != nil {
			return fmt.Errorf("error deleting folder: %w", err)
		}
		fmt.Printf("deleted folder %s\n", id)
		return nil
	},
}
