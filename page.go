package clubcms

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/roboclub/clubcms/lexical"
)

type NavLink struct {
	Title  string
	Path   string
	Active bool
}

var navigation = []NavLink{
	{Title: "Home", Path: "/"},
	{Title: "About", Path: "/about"},
	{Title: "Team", Path: "/team"},
	{Title: "Events", Path: "/events"},
	{Title: "Gallery", Path: "/gallery"},
	{Title: "Announcements", Path: "/announcements"},
	{Title: "Contact", Path: "/contact"},
}

// Page is everything a page template gets to see.
type Page struct {
	Site     string
	Title    string
	Template string
	Path     string
	Nav      []NavLink
	Year     int
	ModTime  time.Time
	Body     interface{}
}

// Site builds pages from the records of a Store.
type Site struct {
	Title        string
	ContactEmail string
	// Unsafe skips sanitizing rendered content.
	Unsafe bool
	Store  *Store
	Now    func() time.Time
}

type route struct {
	title    string
	template string
	build    func(s *Site, q url.Values) (interface{}, error)
}

var routes = map[string]route{
	"/":                 {"Home", "home", (*Site).home},
	"/about":            {"About Us", "about", (*Site).about},
	"/team":             {"Our Team", "team", (*Site).team},
	"/events":           {"Events", "events", (*Site).events},
	"/gallery":          {"Gallery", "gallery", (*Site).gallery},
	"/announcements":    {"Announcements", "announcements", (*Site).announcements},
	"/contact":          {"Contact", "contact", (*Site).contact},
	"/privacy-policy":   {"Privacy Policy", "legal", legal(CollectionPrivacyPolicy)},
	"/terms-of-service": {"Terms of Service", "legal", legal(CollectionTermsOfService)},
}

// PageFor builds the page for urlPath. Unknown paths and pages whose
// records are missing yield an error with cause ErrNotFound.
func (s *Site) PageFor(urlPath string, q url.Values) (Page, error) {
	p := path.Clean("/" + urlPath)
	r, ok := routes[p]
	if !ok {
		return Page{}, errors.Wrapf(ErrNotFound, "page %q", p)
	}
	body, err := r.build(s, q)
	if err != nil {
		return Page{}, errors.Wrapf(err, "building page %q", p)
	}

	nav := make([]NavLink, len(navigation))
	copy(nav, navigation)
	for i := range nav {
		nav[i].Active = nav[i].Path == p
	}

	return Page{
		Site:     s.Title,
		Title:    r.title,
		Template: r.template,
		Path:     p,
		Nav:      nav,
		Year:     s.now().Year(),
		ModTime:  s.Store.ModTime(),
		Body:     body,
	}, nil
}

func (s *Site) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type EventView struct {
	Event
	Content *Block
}

type AnnouncementView struct {
	Announcement
	Content *Block
	Excerpt string
}

type HomeBody struct {
	Events        []EventView
	Announcements []AnnouncementView
	Gallery       []GalleryItem
	Sponsors      []Sponsor
}

func (s *Site) eventViews(events []Event) []EventView {
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = EventView{Event: e, Content: NewBlock(Markdown(e.Description, s.Unsafe))}
	}
	return views
}

func (s *Site) announcementViews(items []Announcement) []AnnouncementView {
	views := make([]AnnouncementView, len(items))
	for i, a := range items {
		views[i] = AnnouncementView{
			Announcement: a,
			Content:      NewBlock(RichText(a.Content, s.Unsafe)),
			Excerpt:      excerpt(a),
		}
	}
	return views
}

func excerpt(a Announcement) string {
	return lexical.Excerpt(a.Content, 160)
}

func (s *Site) home(url.Values) (interface{}, error) {
	var body HomeBody
	events, err := s.Store.FeaturedEvents(3)
	if err != nil {
		return nil, err
	}
	body.Events = s.eventViews(events)

	announcements, err := s.Store.Announcements(3)
	if err != nil {
		return nil, err
	}
	body.Announcements = s.announcementViews(announcements)

	if body.Gallery, err = s.Store.FeaturedGallery(6); err != nil {
		return nil, err
	}
	if body.Sponsors, err = s.Store.Sponsors(); err != nil {
		return nil, err
	}
	return body, nil
}

type AboutBody struct {
	*AboutUs
	Main    *Block
	Mission *Block
	Vision  *Block
}

func (s *Site) about(url.Values) (interface{}, error) {
	about, err := s.Store.About()
	if err != nil {
		return nil, err
	}
	return AboutBody{
		AboutUs: about,
		Main:    NewBlock(RichText(about.MainContent, s.Unsafe)),
		Mission: NewBlock(RichText(about.Mission, s.Unsafe)),
		Vision:  NewBlock(RichText(about.Vision, s.Unsafe)),
	}, nil
}

type TeamBody struct {
	Groups []TeamGroup
}

func (s *Site) team(url.Values) (interface{}, error) {
	groups, err := s.Store.Team()
	return TeamBody{Groups: groups}, err
}

type EventsBody struct {
	Status   string
	Statuses []string
	Events   []EventView
}

func (s *Site) events(q url.Values) (interface{}, error) {
	status := q.Get("status")
	if status == "" {
		status = "all"
	}
	events, err := s.Store.Events(status)
	if err != nil {
		return nil, err
	}
	return EventsBody{
		Status:   status,
		Statuses: append([]string{"all"}, EventStatuses...),
		Events:   s.eventViews(events),
	}, nil
}

type GalleryBody struct {
	Category   string
	Categories []string
	Items      []GalleryItem
}

func (s *Site) gallery(q url.Values) (interface{}, error) {
	category := q.Get("category")
	if category == "" {
		category = "all"
	}
	items, err := s.Store.Gallery(category)
	if err != nil {
		return nil, err
	}
	return GalleryBody{
		Category:   category,
		Categories: append([]string{"all"}, GalleryCategories...),
		Items:      items,
	}, nil
}

type AnnouncementsBody struct {
	Items []AnnouncementView
}

func (s *Site) announcements(url.Values) (interface{}, error) {
	items, err := s.Store.Announcements(50)
	if err != nil {
		return nil, err
	}
	return AnnouncementsBody{Items: s.announcementViews(items)}, nil
}

type ContactBody struct {
	Email string
}

func (s *Site) contact(url.Values) (interface{}, error) {
	return ContactBody{Email: s.ContactEmail}, nil
}

// LegalSection is a numbered section ("2.") or subsection ("2.1").
type LegalSection struct {
	Number      string
	Title       string
	Content     *Block
	Subsections []LegalSection
}

type LegalBody struct {
	*LegalDocument
	Introduction *Block
	Sections     []LegalSection
}

// legal renders the introduction and all sections of the active document
// concurrently; the result keeps document order.
func legal(collection string) func(*Site, url.Values) (interface{}, error) {
	return func(s *Site, _ url.Values) (interface{}, error) {
		doc, err := s.Store.ActiveLegal(collection)
		if err != nil {
			return nil, err
		}

		body := LegalBody{
			LegalDocument: doc,
			Introduction:  NewBlock(RichText(doc.Introduction, s.Unsafe)),
		}
		blocks := []*Block{body.Introduction}
		for i, sec := range doc.Sections {
			ls := LegalSection{
				Number:  strconv.Itoa(i+1) + ".",
				Title:   sec.SectionTitle,
				Content: NewBlock(RichText(sec.SectionContent, s.Unsafe)),
			}
			blocks = append(blocks, ls.Content)
			for j, sub := range sec.Subsections {
				ss := LegalSection{
					Number:  fmt.Sprintf("%d.%d", i+1, j+1),
					Title:   sub.SubsectionTitle,
					Content: NewBlock(RichText(sub.SubsectionContent, s.Unsafe)),
				}
				blocks = append(blocks, ss.Content)
				ls.Subsections = append(ls.Subsections, ss)
			}
			body.Sections = append(body.Sections, ls)
		}

		var g errgroup.Group
		for _, b := range blocks {
			b := b
			g.Go(func() error {
				_, err := b.Render()
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.Wrapf(err, "rendering %s", collection)
		}
		return body, nil
	}
}

// For debugging
func (p Page) Outline() string {
	buf := bytes.Buffer{}

	fmt.Fprintln(&buf, "Menu:")
	for _, n := range p.Nav {
		fmt.Fprintf(&buf, "\t%q", n.Title)
		if n.Active {
			fmt.Fprintf(&buf, " (active)")
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "Page: %q (template %q)\n", p.Title, p.Template)
	fmt.Fprintln(&buf, "Content:")
	switch b := p.Body.(type) {
	case HomeBody:
		fmt.Fprintf(&buf, "\t%d events, %d announcements, %d images, %d sponsors\n",
			len(b.Events), len(b.Announcements), len(b.Gallery), len(b.Sponsors))
	case EventsBody:
		for _, e := range b.Events {
			fmt.Fprintf(&buf, "\t%s %q [%s]\n", e.EventDate, e.Title, e.Status)
		}
	case AnnouncementsBody:
		for _, a := range b.Items {
			fmt.Fprintf(&buf, "\t%q\n", a.Title)
		}
	case TeamBody:
		for _, g := range b.Groups {
			names := make([]string, len(g.Members))
			for i, m := range g.Members {
				names[i] = m.Name
			}
			fmt.Fprintf(&buf, "\t%s: %s\n", g.Label, strings.Join(names, ", "))
		}
	case GalleryBody:
		fmt.Fprintf(&buf, "\t%d images in %q\n", len(b.Items), b.Category)
	case LegalBody:
		fmt.Fprintf(&buf, "\t%q version %s\n", b.Title, b.Version)
		for _, sec := range b.Sections {
			fmt.Fprintf(&buf, "\t%s %s\n", sec.Number, sec.Title)
			for _, sub := range sec.Subsections {
				fmt.Fprintf(&buf, "\t\t%s %s\n", sub.Number, sub.Title)
			}
		}
	case AboutBody:
		fmt.Fprintf(&buf, "\t%q\n", b.Title)
	}

	return buf.String()
}
