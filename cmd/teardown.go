package cmd

import (
	"fmt"

	"github.com/reviewbridge/reviewbridge/cleanup"
	"github.com/reviewbridge/reviewbridge/config"
	"github.com/reviewbridge/reviewbridge/manifest"
	"github.com/spf13/cobra"
)

var forceTeardown bool

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Remove installed skill files and request documents",
	Long: `Walk the manifest and delete every installed skill document, any skill
directory left empty by that, and any lingering request document next to it,
then delete the manifest itself. Honors cleanup-on-deactivate from the
config unless --force overrides it. Files other tools placed in the skill
directory are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		storePath, err := manifest.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving manifest path: %w", err)
		}
		store := manifest.NewStore(storePath)

		enabled := cfg.CleanupOnDeactivate || forceTeardown
		tracked := len(store.Load().InstalledPaths)
		cleanup.Teardown(store, enabled)

		if !enabled {
			fmt.Println("Cleanup on deactivate is disabled; nothing removed. Use --force to override.")
			return nil
		}
		fmt.Printf("Removed skill files from %d workspace(s) and deleted the manifest.\n", tracked)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teardownCmd)
	teardownCmd.Flags().BoolVar(&forceTeardown, "force", false,
		"Remove installed files even when cleanup-on-deactivate is off")
}
