package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

func run(t *testing.T, catalogPath, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(func(path string) catalog.Store { return catalog.NewFileStore(path, logger.NewNop()) })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--catalog", catalogPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSeedThenList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	_, stderr, err := run(t, path, "", "seed")
	require.NoError(t, err)
	require.Contains(t, stderr, "seeded")

	out, _, err := run(t, path, "", "projects", "list", "--json")
	require.NoError(t, err)
	var recs []project.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, len(catalog.SeedProjects()))

	_, stderr, err = run(t, path, "", "seed")
	require.NoError(t, err)
	require.Contains(t, stderr, "--force")

	out, _, err = run(t, path, "", "projects", "list", "--category", "brand protection")
	require.NoError(t, err)
	require.Contains(t, out, "premier-watchdog")

	_, _, err = run(t, path, "", "projects", "list", "--category", "cooking")
	require.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")

	_, _, err := run(t, src, "", "seed")
	require.NoError(t, err)

	exported, _, err := run(t, src, "", "projects", "export", "-")
	require.NoError(t, err)

	_, stderr, err := run(t, dst, exported, "projects", "import", "-")
	require.NoError(t, err)
	require.Contains(t, stderr, "imported")

	a, err := os.ReadFile(src)
	require.NoError(t, err)
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")

	dup := `[{"id":"a","title":"A","description":"","image":"","tags":[],"category":"AI"},
	         {"id":"a","title":"B","description":"","image":"","tags":[],"category":"AI"}]`
	_, _, err := run(t, path, dup, "projects", "import", "-")
	require.ErrorIs(t, err, catalog.ErrConflict)

	bad := `[{"id":"a","title":"A","description":"","image":"","tags":[],"category":"Cooking"}]`
	_, _, err = run(t, path, bad, "projects", "import", "-")
	require.ErrorIs(t, err, project.ErrInvalid)

	_, _, err = run(t, path, `{"id":"a"}`, "projects", "import", "-")
	require.ErrorIs(t, err, catalog.ErrCorrupt)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "failed imports never write")
}

func TestHashPassword(t *testing.T) {
	out, _, err := run(t, "unused.json", "hunter2\n", "hash-password")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	_, _, err = run(t, "unused.json", "", "hash-password")
	require.Error(t, err)
}
