package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/roboclub/clubcms"
)

func delspace(r rune) rune {
	if unicode.In(r, unicode.Latin, unicode.Digit) {
		return r
	} else {
		return '-'
	}
}

var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss")

// slugify turns a title into a file and URL friendly name.
func slugify(title string) string {
	s := umlauts.Replace(strings.Map(delspace, strings.ToLower(title)))
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func emptyDocument() map[string]interface{} {
	return map[string]interface{}{
		"root": map[string]interface{}{
			"type":      "root",
			"version":   1,
			"format":    "",
			"indent":    0,
			"direction": nil,
			"children":  []interface{}{},
		},
	}
}

// scaffold returns the skeleton record of collection and its file name.
func scaffold(collection, title string, now time.Time) (string, map[string]interface{}, error) {
	slug := slugify(title)
	date := now.Format(time.RFC3339)
	name := slug
	var rec map[string]interface{}

	switch collection {
	case clubcms.CollectionEvents:
		name = now.Format("2006-01-02_") + slug
		rec = map[string]interface{}{
			"title":       title,
			"slug":        slug,
			"description": "",
			"eventDate":   date,
			"status":      clubcms.StatusUpcoming,
			"category":    "other",
			"featured":    false,
		}
	case clubcms.CollectionAnnouncements:
		name = now.Format("2006-01-02_") + slug
		rec = map[string]interface{}{
			"title":     title,
			"createdAt": date,
			"content":   emptyDocument(),
		}
	case clubcms.CollectionTeam:
		rec = map[string]interface{}{
			"name":     title,
			"role":     "",
			"category": "executive_member",
			"order":    0,
		}
	case clubcms.CollectionGallery:
		rec = map[string]interface{}{
			"title":    title,
			"image":    "",
			"category": "other",
			"order":    0,
		}
	case clubcms.CollectionSponsors:
		rec = map[string]interface{}{
			"name":    title,
			"website": "",
			"order":   0,
		}
	case clubcms.CollectionAbout:
		rec = map[string]interface{}{
			"title":       title,
			"mainContent": emptyDocument(),
		}
	case clubcms.CollectionPrivacyPolicy, clubcms.CollectionTermsOfService:
		name = now.Format("2006-01-02_") + slug
		rec = map[string]interface{}{
			"title":         title,
			"version":       "1.0",
			"effectiveDate": now.Format("2006-01-02"),
			"isActive":      false,
			"introduction":  emptyDocument(),
			"sections":      []interface{}{},
		}
		if collection == clubcms.CollectionTermsOfService {
			rec["acceptanceRequired"] = false
		}
	default:
		return "", nil, errors.Errorf("Unknown collection: %q", collection)
	}
	if slug == "" {
		return "", nil, errors.Errorf("Title %q gives an empty name", title)
	}
	return name + ".json", rec, nil
}

func newNewCmd() *cobra.Command {
	var (
		title    string
		dir      string
		simulate bool
		edit     bool
	)
	cmd := &cobra.Command{
		Use:   "new <collection>",
		Short: "Create a skeleton record",
		Long: "Create a skeleton record in collections/<collection>/ of the content tree.\n" +
			"Collections: events, annoucement, team-members, gallery, sponsors,\n" +
			"about-us, privacy-policy, terms-of-service.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fname, rec, err := scaffold(args[0], title, time.Now())
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(rec, "", "\t")
			if err != nil {
				return err
			}
			fpath := filepath.Join(dir, "collections", args[0], fname)

			if !simulate {
				if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
					return errors.Wrapf(err, "Cannot create directory: %q", filepath.Dir(fpath))
				}
				f, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
				if err != nil {
					return errors.Wrapf(err, "Cannot create record: %q", fpath)
				}
				_, err = f.Write(append(b, '\n'))
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return errors.Wrapf(err, "Cannot write record: %q", fpath)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), fpath)
			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			if edit && !simulate {
				return openEditor(fpath)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "New Page", "set the title")
	f.StringVar(&dir, "dir", "example_site", "content tree")
	f.BoolVarP(&simulate, "simulate", "n", false, "only show the result")
	f.BoolVarP(&edit, "edit", "e", false, "open $EDITOR on the new record")
	return cmd
}

func openEditor(fpath string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	path, err := exec.LookPath(editor)
	if err != nil {
		return errors.Wrapf(err, "Cannot find editor %q", editor)
	}
	c := exec.Command(path, fpath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
