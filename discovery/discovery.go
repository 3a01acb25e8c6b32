// Package discovery finds test targets by walking a working directory for
// test modules and converting their paths into dotted target identifiers.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const testFileSuffix = "_test.py"

// Directories never searched for test targets, regardless of run config.
var alwaysSkipped = []string{".git", "third_party", "core/tests"}

// FindTestTargets walks workDir and returns a dotted target identifier for
// every test module found, in walk order. pathFilter, when non-empty,
// restricts the walk to that subtree (relative to workDir); a filter that
// points outside workDir or at nothing is an error. Extra directories to
// skip may be passed in excludes, relative to workDir.
func FindTestTargets(workDir, pathFilter string, excludes []string) ([]string, error) {
	if workDir == "" {
		return nil, fmt.Errorf("working directory cannot be empty")
	}

	root := workDir
	if pathFilter != "" {
		root = filepath.Join(workDir, filepath.FromSlash(pathFilter))
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("cannot read test path %q: %w", root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("test path %q is not a directory", root)
	}

	skipped := make([]string, 0, len(alwaysSkipped)+len(excludes))
	skipped = append(skipped, alwaysSkipped...)
	skipped = append(skipped, excludes...)

	var targets []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(workDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			for _, skip := range skipped {
				if rel == skip {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), testFileSuffix) {
			return nil
		}
		targets = append(targets, targetForPath(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover test targets: %w", err)
	}

	return targets, nil
}

// targetForPath converts a slash-relative module path into a dotted target
// identifier, e.g. "core/domain/exp_test.py" -> "core.domain.exp_test".
func targetForPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".py")
	return strings.ReplaceAll(rel, "/", ".")
}
