package cmd

import (
	"fmt"

	"github.com/reviewbridge/reviewbridge/skills"
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the bundled skill documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := skills.Load()
		if err != nil {
			return err
		}

		for _, skill := range loaded {
			fmt.Printf("%s (v%s)\n  %s\n", skill.Name, skill.Version, skill.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}
