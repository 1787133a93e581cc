package matcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tokenring-ai/codebase/internal/logging"
)

// FSAccessor reads file contents from a workspace root. It implements
// resource.ContentAccessor.
type FSAccessor struct {
	Root string
}

// GetFile returns the raw text of the file at the slash-separated relative
// path. Missing or unreadable files fail.
func (a *FSAccessor) GetFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(a.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		logging.MatcherDebug("Read failed for %s: %v", path, err)
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
