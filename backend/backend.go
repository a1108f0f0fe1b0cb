// Package backend provides the read-only file systems the site content is
// served from: a plain directory or the head of a git branch.
package backend

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gogits/git"
	"github.com/lemmi/ghfs"
	"github.com/pkg/errors"
)

type Backend interface {
	http.FileSystem
}

// CIDer is implemented by backends that know the revision they serve.
type CIDer interface {
	CID() string
}

// Dir serves the content tree rooted at path.
func Dir(path string) (Backend, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs(%q)", path)
	}
	return http.Dir(abs), nil
}

type gitBackend struct {
	http.FileSystem
	cid string
}

func (g gitBackend) CID() string {
	return g.cid
}

// Git serves the tree of the head commit of branch in the repository at path.
func Git(path, branch string) (Backend, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs(%q)", path)
	}
	repo, err := git.OpenRepository(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "git.OpenRepository(%q)", abs)
	}
	commit, err := repo.GetCommitOfBranch(branch)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open branch %q", branch)
	}
	return gitBackend{
		FileSystem: ghfs.FromCommit(commit),
		cid:        strings.Trim(commit.Id.String(), "\""),
	}, nil
}
