package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reviewbridge/reviewbridge/cleanup"
	"github.com/reviewbridge/reviewbridge/config"
	"github.com/reviewbridge/reviewbridge/editor"
	"github.com/reviewbridge/reviewbridge/git"
	"github.com/reviewbridge/reviewbridge/logger"
	"github.com/reviewbridge/reviewbridge/manifest"
	"github.com/reviewbridge/reviewbridge/request"
	"github.com/reviewbridge/reviewbridge/rules"
	"github.com/reviewbridge/reviewbridge/skills"
	"github.com/reviewbridge/reviewbridge/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// review command flags
	waitForCleanup bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Build a review request and hand it to the editor's AI panel",
	Long: `Assemble a markdown review request document from one of several git-derived
contexts, keep the bundled review skill installed next to it, and probe the
host editor's commands until one accepts the prompt. When nothing does, the
prompt lands on the clipboard instead.`,
}

var reviewChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Review everything between the diff base and HEAD",
	Long: `Resolve the diff base (the upstream branch, the previous commit, or HEAD
itself when nothing else exists), ask for a one-line description of the
change, and request a review of base against HEAD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, func(p *pipeline) (*request.Document, error) {
			return request.Changes(p.git, p.host, p.cfg.BaseBranch)
		})
	},
}

var reviewFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Review the file active in the editor",
	Long: `Request a review of the active editor file in its current state, saved or
not. In terminal mode the positional path stands in for the active editor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, func(p *pipeline) (*request.Document, error) {
			if len(args) == 1 {
				if term, ok := p.host.(*editor.TerminalHost); ok {
					term.ActiveFilePath = args[0]
				}
			}
			return request.ActiveFile(p.host)
		})
	},
}

var reviewCommitCmd = &cobra.Command{
	Use:   "commit [range]",
	Short: "Review a commit SHA or range",
	Long: `Request a review of a single commit or a range like abc123..def456. The
value is passed through literally; without a positional argument an input
box asks for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, func(p *pipeline) (*request.Document, error) {
			if len(args) == 1 {
				return request.CommitRangeOf(args[0])
			}
			return request.CommitRange(p.host)
		})
	},
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes and unpushed commits",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, func(p *pipeline) (*request.Document, error) {
			return request.Staged(p.git)
		})
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewChangesCmd, reviewFileCmd, reviewCommitCmd, reviewStagedCmd)

	reviewCmd.PersistentFlags().BoolVar(&waitForCleanup, "wait", false,
		"Stay alive until the request document is cleaned up (terminal mode)")
	reviewCmd.PersistentFlags().String("base-branch", "",
		`Diff base reference ("auto" tries the upstream, then the previous commit)`)
	reviewCmd.PersistentFlags().String("severity-threshold", "",
		"Weakest finding severity worth reporting (info, low, medium, high, critical)")
	reviewCmd.PersistentFlags().String("rules-file", "",
		"Path or https URL of a team rules document")

	_ = viper.BindPFlag("base-branch", reviewCmd.PersistentFlags().Lookup("base-branch"))
	_ = viper.BindPFlag("severity-threshold", reviewCmd.PersistentFlags().Lookup("severity-threshold"))
	_ = viper.BindPFlag("rules-file", reviewCmd.PersistentFlags().Lookup("rules-file"))

	// Failures are reported through the host surface (editor notification or
	// stderr), so cobra must not print them a second time.
	for _, cmd := range []*cobra.Command{reviewChangesCmd, reviewFileCmd, reviewCommitCmd, reviewStagedCmd} {
		cmd.SilenceErrors = true
	}
}

// pipeline carries what every review subcommand needs to build a document.
type pipeline struct {
	cfg  *config.Config
	host editor.Host
	git  *git.Client
}

// runReview is the shared command path: pick the host, load config, sync the
// skill files, build the document, write and open it, probe delivery, and
// schedule the cleanup.
func runReview(cmd *cobra.Command, build func(p *pipeline) (*request.Document, error)) error {
	host := newHost()

	cfg, err := config.Load()
	if err != nil {
		return fail(host, err)
	}

	gitClient := git.NewClient(git.NewDefaultRunner("."))

	workspace, err := resolveWorkspace(gitClient)
	if err != nil {
		return fail(host, err)
	}

	storePath, err := manifest.DefaultPath()
	if err != nil {
		return fail(host, fmt.Errorf("resolving manifest path: %w", err))
	}
	store := manifest.NewStore(storePath)

	installer := skills.NewInstaller(skills.Bundle(), store)
	if _, err := installer.Sync(workspace, version.Version, cfg.AutoInstall); err != nil {
		// A broken sync leaves stale or missing skill files behind but the
		// request itself can still go out.
		logger.Warnf("Skill sync failed: %v", err)
	}

	doc, err := build(&pipeline{cfg: cfg, host: host, git: gitClient})
	if err != nil {
		if errors.Is(err, editor.ErrCancelled) {
			logger.Debug("Review cancelled by the user")
			return nil
		}
		return fail(host, err)
	}
	doc.Workspace = workspace

	rulesPath, err := rules.Resolve(cmd.Context(), cfg.RulesFile, filepath.Dir(storePath))
	if err != nil {
		return fail(host, err)
	}

	content := doc.Render(request.RenderOptions{
		SkillDir:   skills.Dir(workspace),
		RulesPath:  rulesPath,
		FocusAreas: cfg.FocusAreas,
		Severity:   cfg.SeverityThreshold,
	})
	if err := os.WriteFile(doc.Path(), []byte(content), 0o644); err != nil {
		return fail(host, fmt.Errorf("writing request document: %w", err))
	}
	logger.Infof("Review request %s written to %s", doc.ID, doc.Path())

	if err := host.OpenDocument(doc.Path()); err != nil {
		logger.Warnf("Could not open the request document: %v", err)
	}

	prober := editor.NewProber(host)
	delivered, attempts := prober.Deliver(cmd.Context(), request.Prompt(doc.Path()))
	logger.Infof("Delivery finished after %d attempts (delivered=%t)", len(attempts), delivered)

	scheduleCleanup(host, doc.Path())
	return nil
}

// newHost selects the editor surface: the JSON-RPC bridge when the process
// was spawned by the extension, terminal emulation otherwise.
func newHost() editor.Host {
	mode := ipcMode
	if mode == "" {
		mode = os.Getenv("REVIEWBRIDGE_IPC")
	}
	if mode == "stdio" {
		logger.Debug("Talking to the editor over the stdio bridge")
		return editor.NewBridgeHost(os.Stdin, os.Stdout)
	}
	return editor.NewTerminalHost()
}

// resolveWorkspace anchors the skill directory and the request document: the
// repository root when inside one, the working directory otherwise.
func resolveWorkspace(client *git.Client) (string, error) {
	if top, err := client.TopLevel(); err == nil {
		return top, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving workspace: %w", err)
	}
	return cwd, nil
}

// fail reports the error on the host surface and hands it back to cobra.
func fail(host editor.Host, err error) error {
	host.ShowError(err.Error())
	return err
}

// scheduleCleanup arms the deferred removal of the request document. The
// bridge process parks until the timer fires so the removal actually runs; a
// terminal process cannot usefully outlive the delay, so it only waits when
// asked to and otherwise says where the file was left.
func scheduleCleanup(host editor.Host, path string) {
	if _, bridged := host.(*editor.BridgeHost); !bridged && !waitForCleanup {
		host.ShowInfo(fmt.Sprintf("The request document stays at %s; delete it when done.", path))
		return
	}

	scheduler := cleanup.NewScheduler(host, cleanup.DefaultDelay)
	scheduler.Schedule(path)
	scheduler.Wait()
}
