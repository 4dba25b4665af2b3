// Package artifacts persists rendered report bundles. The pipeline hands
// each store the same named byte payloads; stores only choose where the
// bytes go, never what they contain.
package artifacts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"scangate/pkg/shared/files"
)

// Artifact is one named report payload.
type Artifact struct {
	Name string
	Body []byte
}

// Store receives a rendered report bundle for persistence. Implementations
// must not mutate the bundle.
type Store interface {
	// Name identifies the store in logs and warnings.
	Name() string
	// Save persists every artifact in the bundle under the given bundle name.
	Save(ctx context.Context, bundleName string, bundle []Artifact) error
}

// BundleName builds the name grouping one run's artifacts.
// Example: scan_registry.example.com-app-1.4.2_2024-06-10T08:30:00Z.
func BundleName(command, imageRef string, t time.Time) string {
	ref := strings.NewReplacer("/", "-", ":", "-", "@", "-").Replace(imageRef)
	return fmt.Sprintf("%s_%s_%s", command, ref, t.UTC().Format(time.RFC3339))
}

// LocalStore writes the bundle under a directory on disk. It is always
// enabled; the remote stores are optional additions.
type LocalStore struct {
	dir    string
	logger hclog.Logger
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string, logger hclog.Logger) *LocalStore {
	return &LocalStore{dir: dir, logger: logger}
}

// Name implements Store.
func (s *LocalStore) Name() string { return "local" }

// Dir returns the directory a bundle with the given name is written to.
func (s *LocalStore) Dir(bundleName string) string {
	return filepath.Join(s.dir, bundleName)
}

// Save implements Store, writing each artifact as a file under
// <dir>/<bundleName>/. Bundle and artifact names must stay inside the
// store directory.
func (s *LocalStore) Save(_ context.Context, bundleName string, bundle []Artifact) error {
	folder, err := files.EnsureWithinRoot(s.dir, s.Dir(bundleName))
	if err != nil {
		return fmt.Errorf("invalid bundle name %q: %w", bundleName, err)
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return fmt.Errorf("failed to create artifact folder %q: %w", folder, err)
	}

	for _, artifact := range bundle {
		path, err := files.EnsureWithinRoot(folder, filepath.Join(folder, artifact.Name))
		if err != nil {
			return fmt.Errorf("invalid artifact name %q: %w", artifact.Name, err)
		}
		if err := files.WriteFile(path, artifact.Body); err != nil {
			return fmt.Errorf("failed to write artifact %q: %w", path, err)
		}
		s.logger.Debug("artifact saved", "path", path)
	}
	s.logger.Info("report bundle saved", "folder", folder, "artifacts", len(bundle))

	return nil
}
