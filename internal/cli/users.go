package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with their entry counts",
		Run:   runUsers,
	}

	RootCmd.AddCommand(cmd)
}

func runUsers(cmd *cobra.Command, args []string) {
	checkFormat()

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	users, err := s.ListUsers(cmd.Context())
	if err != nil {
		exitErr("list users", err)
	}

	if formatFlag == "text" {
		writeUsersText(os.Stdout, users)
		return
	}
	writeJSON(os.Stdout, users)
}
