package clubcms

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/roboclub/clubcms/backend"
)

var ErrNotFound = errors.New("not found")

const collectionsDir = "/collections"

// Store reads collection records from a content backend. Every record is
// one .json, .yaml or .yml file in collections/<slug>/.
type Store struct {
	fs backend.Backend

	mu      sync.Mutex
	modTime time.Time
}

func NewStore(fs backend.Backend) *Store {
	return &Store{fs: fs}
}

// ModTime is the latest modification time of all records read so far.
func (s *Store) ModTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modTime
}

func (s *Store) touch(t time.Time) {
	s.mu.Lock()
	if t.After(s.modTime) {
		s.modTime = t
	}
	s.mu.Unlock()
}

type recorder interface {
	record() *Record
}

type normalizer interface {
	normalize()
}

// Find returns the records of collection for which keep returns true, in
// file name order. A nil keep matches everything. A missing collection is
// empty. Records that cannot be decoded are logged and skipped.
func Find[T any](s *Store, collection string, keep func(*T) bool) ([]T, error) {
	dirPath := path.Join(collectionsDir, collection)
	dir, err := s.fs.Open(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Cannot open collection: %q", collection)
	}
	fis, err := dir.Readdir(-1)
	dir.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read collection: %q", collection)
	}
	sort.Slice(fis, func(i, j int) bool { return fis[i].Name() < fis[j].Name() })

	var ret []T
	for _, fi := range fis {
		ext := path.Ext(fi.Name())
		if fi.IsDir() || strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		fpath := path.Join(dirPath, fi.Name())
		var v T
		if err := s.decode(fpath, &v); err != nil {
			slog.Warn("Skipping record", "path", fpath, "err", err)
			continue
		}
		if r, ok := any(&v).(recorder); ok && r.record().ID == "" {
			r.record().ID = strings.TrimSuffix(fi.Name(), ext)
		}
		if n, ok := any(&v).(normalizer); ok {
			n.normalize()
		}
		if keep != nil && !keep(&v) {
			continue
		}
		s.touch(fi.ModTime())
		ret = append(ret, v)
	}
	return ret, nil
}

func (s *Store) decode(fpath string, v interface{}) error {
	f, err := s.fs.Open(fpath)
	if err != nil {
		return errors.Wrapf(err, "Cannot open record: %q", fpath)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrapf(err, "Cannot read record: %q", fpath)
	}
	if path.Ext(fpath) != ".json" {
		if b, err = yamlToJSON(b); err != nil {
			return errors.Wrapf(err, "Parsing yaml in %q", fpath)
		}
	}
	return errors.Wrapf(json.Unmarshal(b, v), "Parsing json in %q", fpath)
}

// yamlToJSON re-encodes a YAML record so that records of both formats go
// through the same JSON decoding, including rich-text documents.
func yamlToJSON(b []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Events returns events newest first, filtered by status unless status is
// empty or "all".
func (s *Store) Events(status string) ([]Event, error) {
	events, err := Find(s, CollectionEvents, func(e *Event) bool {
		return status == "" || status == "all" || e.Status == status
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Time().After(events[j].EventDate.Time())
	})
	return events, nil
}

// FeaturedEvents returns featured events that have not ended, soonest first.
func (s *Store) FeaturedEvents(limit int) ([]Event, error) {
	events, err := Find(s, CollectionEvents, func(e *Event) bool {
		return e.Featured && (e.Status == StatusUpcoming || e.Status == StatusOngoing)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Time().Before(events[j].EventDate.Time())
	})
	return truncate(events, limit), nil
}

// Announcements returns up to limit announcements, newest first by
// Record.Published.
func (s *Store) Announcements(limit int) ([]Announcement, error) {
	items, err := Find[Announcement](s, CollectionAnnouncements, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published().After(items[j].Published())
	})
	return truncate(items, limit), nil
}

type TeamGroup struct {
	Category string
	Label    string
	Members  []TeamMember
}

// Team groups the members by category in TeamCategories order. Members of
// unknown categories go last, into a group labelled "Members". Empty groups
// are omitted.
func (s *Store) Team() ([]TeamGroup, error) {
	members, err := Find[TeamMember](s, CollectionTeam, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Order != members[j].Order {
			return members[i].Order < members[j].Order
		}
		return members[i].Name < members[j].Name
	})

	byCategory := make(map[string][]TeamMember)
	for _, m := range members {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	var groups []TeamGroup
	for _, c := range TeamCategories {
		if ms := byCategory[c.Value]; len(ms) > 0 {
			groups = append(groups, TeamGroup{Category: c.Value, Label: c.Label, Members: ms})
			delete(byCategory, c.Value)
		}
	}
	var rest []TeamMember
	for _, m := range members {
		if _, ok := byCategory[m.Category]; ok {
			rest = append(rest, m)
		}
	}
	if len(rest) > 0 {
		groups = append(groups, TeamGroup{Category: "other", Label: "Members", Members: rest})
	}
	return groups, nil
}

// Gallery returns the active items of category (all if empty) by order.
func (s *Store) Gallery(category string) ([]GalleryItem, error) {
	return s.gallery(func(g *GalleryItem) bool {
		return category == "" || category == "all" || g.Category == category
	})
}

// FeaturedGallery returns the active, featured items by order.
func (s *Store) FeaturedGallery(limit int) ([]GalleryItem, error) {
	items, err := s.gallery(func(g *GalleryItem) bool { return g.Featured })
	return truncate(items, limit), err
}

func (s *Store) gallery(keep func(*GalleryItem) bool) ([]GalleryItem, error) {
	items, err := Find(s, CollectionGallery, func(g *GalleryItem) bool {
		return g.IsActive() && keep(g)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (s *Store) Sponsors() ([]Sponsor, error) {
	sponsors, err := Find(s, CollectionSponsors, (*Sponsor).IsActive)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sponsors, func(i, j int) bool { return sponsors[i].Order < sponsors[j].Order })
	return sponsors, nil
}

func (s *Store) About() (*AboutUs, error) {
	docs, err := Find[AboutUs](s, CollectionAbout, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.Wrap(ErrNotFound, "about-us")
	}
	return &docs[0], nil
}

// ActiveLegal returns the first active document of a legal collection.
func (s *Store) ActiveLegal(collection string) (*LegalDocument, error) {
	docs, err := Find(s, collection, func(d *LegalDocument) bool { return d.IsActive })
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no active %s", collection)
	}
	return &docs[0], nil
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
