package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "Print the military reference tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		branch, _ := cmd.Flags().GetString("branch")

		var out any = vocabulary.All()
		if branch != "" {
			out = vocabulary.CodesForBranch(branch)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(vocabularyCmd)

	vocabularyCmd.Flags().StringP("branch", "b", "", "print only the occupational codes of a branch")
}
