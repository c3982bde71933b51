package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/prgate/internal/llmjson"
	"github.com/dshills/prgate/internal/review"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// FindingsFile is the name of the persisted FixRequest.
const FindingsFile = "review-findings.json"

// ResultFile returns the artifact name for a pass.
func ResultFile(pass review.Pass) string {
	return "review-" + string(pass) + ".json"
}

// Store reads and writes the JSON artifacts exchanged between invocations.
type Store struct {
	fs       afero.Fs
	dir      string
	validate *validator.Validate
}

// NewStore returns a Store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{
		fs:       fs,
		dir:      dir,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Path returns the full path of the named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteResult persists a pass result as review-<pass>.json.
func (s *Store) WriteResult(r review.Result) error {
	if err := s.validate.Struct(r); err != nil {
		return fmt.Errorf("refusing to write invalid %s result: %w", r.Pass, err)
	}
	return s.writeJSON(ResultFile(r.Pass), r)
}

// ReadResult loads the artifact for pass.
func (s *Store) ReadResult(pass review.Pass) (review.Result, error) {
	path := s.Path(ResultFile(pass))
	data, err := s.read(path)
	if err != nil {
		return review.Result{}, err
	}
	r, err := llmjson.Decode[review.Result](string(data), review.ResultSchema)
	if err != nil {
		return review.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := s.validate.Struct(r); err != nil {
		return review.Result{}, fmt.Errorf("reading %s: %w", path, &llmjson.SchemaViolation{Raw: string(data), Reason: "invalid review result", Cause: err})
	}
	if r.Pass != pass {
		return review.Result{}, fmt.Errorf("reading %s: %w", path, &llmjson.SchemaViolation{
			Raw:    string(data),
			Reason: fmt.Sprintf("artifact records pass %q, want %q", r.Pass, pass),
		})
	}
	return r, nil
}

// ReadResults loads the three pass artifacts in pass order.
func (s *Store) ReadResults() ([]review.Result, error) {
	results := make([]review.Result, 0, len(review.Passes))
	for _, pass := range review.Passes {
		r, err := s.ReadResult(pass)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// WriteFixRequest persists the blocking findings for auto-fix.
func (s *Store) WriteFixRequest(fr review.FixRequest) error {
	if err := s.validate.Struct(fr); err != nil {
		return fmt.Errorf("refusing to write invalid fix request: %w", err)
	}
	return s.writeJSON(FindingsFile, fr)
}

// ReadFixRequest loads the persisted FixRequest.
func (s *Store) ReadFixRequest() (review.FixRequest, error) {
	path := s.Path(FindingsFile)
	data, err := s.read(path)
	if err != nil {
		return review.FixRequest{}, err
	}
	fr, err := llmjson.Decode[review.FixRequest](string(data), review.FixRequestSchema)
	if err != nil {
		return review.FixRequest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := s.validate.Struct(fr); err != nil {
		return review.FixRequest{}, fmt.Errorf("reading %s: %w", path, &llmjson.SchemaViolation{Raw: string(data), Reason: "invalid fix request", Cause: err})
	}
	return fr, nil
}

// RemoveFixRequest deletes a stale findings file. It reports whether a file
// was removed.
func (s *Store) RemoveFixRequest() (bool, error) {
	err := s.fs.Remove(s.Path(FindingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", FindingsFile, err)
	}
	return true, nil
}

func (s *Store) read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &MissingArtifactError{Path: path, Cause: err}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeJSON writes v to a temp file in the artifact directory and renames it
// into place so readers never observe a partial file.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, s.Path(name)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}
