package autofix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// staged is a fix written to a temp file next to its target.
type staged struct {
	fix      FileFix
	target   string
	tmp      string
	existed  bool
	original []byte
	mode     os.FileMode
}

// Apply writes every fix under root or none of them. Fixes are validated and
// staged first, then renamed into place in order. If a rename fails, files
// already replaced are restored; a *PartialApplicationError is returned only
// when a restore fails too.
func Apply(fs afero.Fs, root string, fixes []FileFix, log *logrus.Entry) error {
	if err := validateFixes(fixes); err != nil {
		return err
	}

	var plan []*staged
	cleanup := func() {
		for _, s := range plan {
			if s.tmp != "" {
				fs.Remove(s.tmp)
			}
		}
	}

	for _, fix := range fixes {
		s, err := stage(fs, root, fix)
		if s != nil {
			plan = append(plan, s)
		}
		if err != nil {
			cleanup()
			return err
		}
	}

	for i, s := range plan {
		if err := fs.Rename(s.tmp, s.target); err != nil {
			commitErr := fmt.Errorf("writing %s: %w", s.fix.File, err)
			for _, rest := range plan[i:] {
				fs.Remove(rest.tmp)
			}
			return rollback(fs, plan[:i], commitErr)
		}
		s.tmp = ""
		log.WithFields(logrus.Fields{"file": s.fix.File, "changes": s.fix.Changes}).Info("applied fix")
	}
	return nil
}

// validateFixes rejects empty, absolute, escaping and duplicate paths.
func validateFixes(fixes []FileFix) error {
	seen := make(map[string]bool, len(fixes))
	for i, fix := range fixes {
		p := strings.TrimSpace(fix.File)
		if p == "" {
			return fmt.Errorf("fix %d: empty file path", i+1)
		}
		if !insideTree(p) {
			return fmt.Errorf("fix %d: path %q is outside the working tree", i+1, fix.File)
		}
		clean := filepath.Clean(p)
		if seen[clean] {
			return fmt.Errorf("fix %d: duplicate fix for %s", i+1, clean)
		}
		seen[clean] = true
	}
	return nil
}

// insideTree reports whether p is a relative path that stays below the root.
func insideTree(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	clean := filepath.Clean(p)
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func stage(fs afero.Fs, root string, fix FileFix) (*staged, error) {
	target := filepath.Join(root, filepath.Clean(strings.TrimSpace(fix.File)))
	s := &staged{fix: fix, target: target, mode: 0o644}

	info, err := fs.Stat(target)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("staging %s: is a directory", fix.File)
	case err == nil:
		s.existed = true
		s.mode = info.Mode().Perm()
		if s.original, err = afero.ReadFile(fs, target); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", fix.File, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("staging %s: %w", fix.File, err)
	}

	dir := filepath.Dir(target)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("staging %s: %w", fix.File, err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(target)+".*.prgate")
	if err != nil {
		return nil, fmt.Errorf("staging %s: %w", fix.File, err)
	}
	s.tmp = tmp.Name()
	if _, err := tmp.WriteString(fix.Content); err != nil {
		tmp.Close()
		return s, fmt.Errorf("staging %s: %w", fix.File, err)
	}
	if err := tmp.Close(); err != nil {
		return s, fmt.Errorf("staging %s: %w", fix.File, err)
	}
	if err := fs.Chmod(s.tmp, s.mode); err != nil {
		return s, fmt.Errorf("staging %s: %w", fix.File, err)
	}
	return s, nil
}

// rollback restores committed files in reverse order.
func rollback(fs afero.Fs, committed []*staged, cause error) error {
	var failed []string
	for i := len(committed) - 1; i >= 0; i-- {
		s := committed[i]
		var err error
		if s.existed {
			err = afero.WriteFile(fs, s.target, s.original, s.mode)
		} else {
			err = fs.Remove(s.target)
		}
		if err != nil {
			failed = append(failed, s.fix.File)
		}
	}
	if len(failed) > 0 {
		return &PartialApplicationError{Files: failed, Cause: cause}
	}
	return cause
}
