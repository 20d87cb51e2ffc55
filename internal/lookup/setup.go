// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// Setup copies the known dataset files from srcDir into the managed data
// directory under the cache root, reporting each file on w. Files absent
// from srcDir are reported and skipped; only a copy failure is fatal.
func (s *Service) Setup(srcDir string, w io.Writer) error {
	if _, err := os.Stat(srcDir); err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}

	destRoot := filepath.Join(s.cfg.CacheDir, dataSubdir)
	copied, missing := 0, 0
	seen := make(map[string]bool)

	for _, typ := range types.EntityTypes() {
		spec := typ.Spec()
		if seen[spec.File] {
			continue
		}
		seen[spec.File] = true

		src := filepath.Join(srcDir, spec.File)
		if _, err := os.Stat(src); err != nil {
			fmt.Fprintf(w, "missing %s\n", spec.File)
			missing++
			continue
		}

		if err := copyFile(src, filepath.Join(destRoot, spec.File)); err != nil {
			return err
		}
		fmt.Fprintf(w, "copied  %s\n", spec.File)
		copied++
	}

	fmt.Fprintf(w, "\ncopied: %d, missing: %d (into %s)\n", copied, missing, destRoot)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
