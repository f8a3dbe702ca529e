package resolver

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

// workspace is a temporary directory for a throwaway repository clone.
type workspace struct {
	Dir    string
	logger *zap.Logger
}

// acquireWorkspace creates a new uniquely named directory in baseDir.
// If baseDir is empty, the default temporary directory is used.
// The caller must call Release when the workspace is not needed anymore.
func acquireWorkspace(baseDir string, logger *zap.Logger) (*workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	dir := filepath.Join(baseDir, uuid.NewString())

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	logger = logger.With(logfields.Workspace(dir))
	logger.Debug("workspace created", logfields.Event("workspace_created"))

	return &workspace{Dir: dir, logger: logger}, nil
}

// Release removes the workspace directory and its content.
func (w *workspace) Release() {
	if err := os.RemoveAll(w.Dir); err != nil {
		w.logger.Warn(
			"removing workspace failed",
			logfields.Event("workspace_removal_failed"),
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("workspace removed", logfields.Event("workspace_removed"))
}
