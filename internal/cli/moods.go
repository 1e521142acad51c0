package cli

import (
	"os"

	"github.com/rcliao/moodlog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "moods",
		Short: "Show a user's mood history",
		Run:   runMoods,
	}

	cmd.Flags().StringP("user", "u", "", "User (required)")
	cmd.Flags().String("start-date", "", "Earliest date, inclusive")
	cmd.Flags().String("end-date", "", "Latest date, inclusive")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runMoods(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetString("user")
	start, _ := cmd.Flags().GetString("start-date")
	end, _ := cmd.Flags().GetString("end-date")
	checkFormat()

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.QueryEntries(cmd.Context(), store.QueryParams{
		User:      user,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		exitErr("query", err)
	}

	if formatFlag == "text" {
		writeEntriesText(os.Stdout, entries)
		return
	}
	writeJSON(os.Stdout, entries)
}
