package skills

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/reviewbridge/reviewbridge/logger"
	"github.com/reviewbridge/reviewbridge/manifest"
)

// Dir returns the skill directory for a workspace.
func Dir(workspace string) string {
	return filepath.Join(workspace, ".agents", "skills", "code-review")
}

// Installer copies bundled skill documents into workspaces and tracks every
// directory it creates in the manifest store.
type Installer struct {
	bundle fs.FS
	store  *manifest.Store
}

// NewInstaller creates an installer over the given bundle. Pass Bundle() for
// the embedded documents; tests substitute an fstest.MapFS.
func NewInstaller(bundle fs.FS, store *manifest.Store) *Installer {
	return &Installer{
		bundle: bundle,
		store:  store,
	}
}

// Install copies the bundled documents into <workspace>/.agents/skills/code-review,
// records the directory in the manifest and stamps the manifest with the
// given version. A document missing from the bundle is skipped silently.
func (i *Installer) Install(workspace, version string) error {
	dest := Dir(workspace)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating skill directory: %w", err)
	}

	for _, name := range BundledFiles {
		data, err := fs.ReadFile(i.bundle, name)
		if err != nil {
			logger.Debugf("Skill document %s not in bundle, skipping", name)
			continue
		}
		if err := os.WriteFile(filepath.Join(dest, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	m := i.store.Load()
	m.AddPath(dest)
	m.ExtensionVersion = version
	if err := i.store.Save(m); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	logger.Debugf("Installed skill documents into %s", dest)
	return nil
}

// RemoveOld deletes the known skill documents from the workspace's skill
// directory. Absent files are fine.
func (i *Installer) RemoveOld(workspace string) {
	dest := Dir(workspace)
	for _, name := range BundledFiles {
		if err := os.Remove(filepath.Join(dest, name)); err != nil && !os.IsNotExist(err) {
			logger.Debugf("Could not remove stale %s: %v", name, err)
		}
	}
}

// Sync applies the activation policy: nothing happens unless autoInstall is
// set; installation runs when the skill entry point is missing from the
// workspace or the manifest records a different version. Old documents are
// removed before the new ones are written, so no stale-version file survives
// a version bump. Returns true when an install ran.
func (i *Installer) Sync(workspace, version string, autoInstall bool) (bool, error) {
	if !autoInstall {
		return false, nil
	}

	m := i.store.Load()
	_, err := os.Stat(filepath.Join(Dir(workspace), SkillFileName))
	if err == nil && m.ExtensionVersion == version {
		return false, nil
	}

	i.RemoveOld(workspace)
	if err := i.Install(workspace, version); err != nil {
		return false, err
	}
	return true, nil
}
