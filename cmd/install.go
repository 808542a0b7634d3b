package cmd

import (
	"fmt"

	"github.com/reviewbridge/reviewbridge/git"
	"github.com/reviewbridge/reviewbridge/manifest"
	"github.com/reviewbridge/reviewbridge/skills"
	"github.com/reviewbridge/reviewbridge/version"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the bundled review skill into the workspace",
	Long: `Copy the bundled skill documents into <workspace>/.agents/skills/code-review
and record the directory in the manifest. Runs unconditionally, replacing
whatever version is already there; review commands do the same on demand
when auto-install is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspace, err := resolveWorkspace(git.NewClient(git.NewDefaultRunner(".")))
		if err != nil {
			return err
		}

		storePath, err := manifest.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving manifest path: %w", err)
		}

		installer := skills.NewInstaller(skills.Bundle(), manifest.NewStore(storePath))
		installer.RemoveOld(workspace)
		if err := installer.Install(workspace, version.Version); err != nil {
			return err
		}

		fmt.Printf("Installed review skill v%s into %s\n", version.Version, skills.Dir(workspace))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
