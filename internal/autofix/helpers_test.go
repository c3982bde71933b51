package autofix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/prgate/internal/artifact"
	"github.com/dshills/prgate/internal/providers"
	"github.com/dshills/prgate/internal/review"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	reply    string
	err      error
	requests []providers.ChatRequest
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return providers.ChatResponse{}, g.err
	}
	return providers.ChatResponse{Content: g.reply}, nil
}

func testLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

// writeFixRequest persists fr through the artifact store the CLI uses.
func writeFixRequest(t *testing.T, fs afero.Fs, fr review.FixRequest) *artifact.Store {
	t.Helper()
	store := artifact.NewStore(fs, "/art")
	require.NoError(t, store.WriteFixRequest(fr))
	return store
}

// snapshot maps every regular file in fs to its content.
func snapshot(t *testing.T, fs afero.Fs) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(path)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func hasTempFiles(files map[string]string) bool {
	for path := range files {
		if strings.HasSuffix(path, ".prgate") {
			return true
		}
	}
	return false
}

// failingFs fails Rename onto renameTarget and OpenFile of writeTarget.
type failingFs struct {
	afero.Fs
	renameTarget string
	writeTarget  string
}

var errInjected = errors.New("injected failure")

func (f *failingFs) Rename(oldname, newname string) error {
	if newname == f.renameTarget {
		return errInjected
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.writeTarget {
		return nil, errInjected
	}
	return f.Fs.OpenFile(name, flag, perm)
}
