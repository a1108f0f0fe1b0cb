package backend

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "collections", "events"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "collections", "events", "a.json"), []byte(`{"title":"A"}`), 0644))

	b, err := Dir(root)
	require.NoError(t, err)

	f, err := b.Open("/collections/events/a.json")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"A"}`, string(data))

	_, ok := b.(CIDer)
	assert.False(t, ok, "plain directories have no revision")

	_, err = b.Open("/collections/events/missing.json")
	assert.True(t, os.IsNotExist(err))
}

func TestGitMissingRepository(t *testing.T) {
	_, err := Git(t.TempDir(), "master")
	assert.Error(t, err)
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir, "-c", "user.name=club", "-c", "user.email=club@example.com"}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

func TestGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	gitCmd(t, root, "init")
	gitCmd(t, root, "checkout", "-b", "site")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "collections", "events"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "collections", "events", "a.json"), []byte(`{"title":"A"}`), 0644))
	gitCmd(t, root, "add", ".")
	gitCmd(t, root, "commit", "-m", "first event")
	head := gitCmd(t, root, "rev-parse", "HEAD")

	// uncommitted edits are not served
	require.NoError(t, os.WriteFile(filepath.Join(root, "collections", "events", "a.json"), []byte(`{"title":"B"}`), 0644))

	b, err := Git(root, "site")
	require.NoError(t, err)

	f, err := b.Open("/collections/events/a.json")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"A"}`, string(data))

	c, ok := b.(CIDer)
	require.True(t, ok)
	assert.Equal(t, head, c.CID())

	_, err = Git(root, "no-such-branch")
	assert.Error(t, err)
}
