package main

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/roboclub/clubcms"
	"github.com/roboclub/clubcms/backend"
)

func newOutlineCmd() *cobra.Command {
	var (
		dir    string
		git    bool
		branch string
	)
	cmd := &cobra.Command{
		Use:   "outline <path>",
		Short: "Print what a page of the site would show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "Invalid path: %q", args[0])
			}
			var fs backend.Backend
			if git {
				fs, err = backend.Git(dir, branch)
			} else {
				fs, err = backend.Dir(dir)
			}
			if err != nil {
				return err
			}
			site := &clubcms.Site{Store: clubcms.NewStore(fs)}
			p, err := site.PageFor(u.Path, u.Query())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p.Outline())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "dir", "example_site", "content tree")
	f.BoolVar(&git, "git", false, "dir is a git repo")
	f.StringVar(&branch, "branch", "master", "branch to read in git mode")
	return cmd
}
