package cleanup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewbridge/reviewbridge/logger"
	"github.com/reviewbridge/reviewbridge/manifest"
	"github.com/reviewbridge/reviewbridge/request"
	"github.com/reviewbridge/reviewbridge/skills"
)

// Teardown deletes everything the manifest tracks: the known skill files in
// every recorded directory, the directories themselves when that empties
// them, leftover request documents at the inferred workspace roots, and
// finally the manifest itself. Every step is best-effort; one failure never
// blocks the rest. With enabled false nothing is touched.
func Teardown(store *manifest.Store, enabled bool) {
	if !enabled {
		logger.Debug("Cleanup on deactivate is disabled, leaving installed files in place")
		return
	}

	m := store.Load()
	for _, dir := range m.InstalledPaths {
		for _, name := range skills.BundledFiles {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Debugf("Teardown could not remove %s: %v", path, err)
			}
		}

		// Succeeds only when nothing else was put in the directory.
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			logger.Debugf("Teardown left %s in place: %v", dir, err)
		}

		if ws, ok := workspaceRoot(dir); ok {
			doc := filepath.Join(ws, request.FileName)
			if err := os.Remove(doc); err != nil && !os.IsNotExist(err) {
				logger.Debugf("Teardown could not remove %s: %v", doc, err)
			}
		}
	}

	if err := store.Remove(); err != nil {
		logger.Debugf("Teardown could not remove the manifest: %v", err)
	}
}

// workspaceRoot unwinds a recorded skill directory back to the workspace the
// installer put it in. ok is false for paths with an unexpected shape; those
// are left alone rather than guessed at.
func workspaceRoot(dir string) (string, bool) {
	suffix := string(filepath.Separator) + filepath.Join(".agents", "skills", "code-review")
	clean := filepath.Clean(dir)
	if !strings.HasSuffix(clean, suffix) {
		return "", false
	}
	return strings.TrimSuffix(clean, suffix), true
}
