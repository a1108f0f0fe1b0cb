package clubcms

import (
	"strings"
	"time"

	"github.com/roboclub/clubcms/lexical"
)

// Date accepts the timestamps editors and the admin export write: RFC 3339,
// "2006-01-02 15:04" and plain dates.
type Date time.Time

const DateLayout = "2006-01-02 15:04"

var dateLayouts = []string{
	time.RFC3339Nano,
	DateLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*t = Date{}
		return nil
	}
	var err error
	for _, layout := range dateLayouts {
		var tmp time.Time
		if tmp, err = time.Parse(layout, s); err == nil {
			*t = Date(tmp)
			return nil
		}
	}
	return err
}

func (t Date) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

func (t Date) Time() time.Time {
	return time.Time(t)
}

func (t Date) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Date) String() string {
	return time.Time(t).Format(DateLayout)
}

// Collection slugs, as found under collections/ in the content tree.
const (
	CollectionEvents         = "events"
	CollectionAnnouncements  = "annoucement"
	CollectionTeam           = "team-members"
	CollectionGallery        = "gallery"
	CollectionSponsors       = "sponsors"
	CollectionAbout          = "about-us"
	CollectionPrivacyPolicy  = "privacy-policy"
	CollectionTermsOfService = "terms-of-service"
)

// Record holds the fields every collection entry has. ID defaults to the
// file name without extension.
type Record struct {
	ID        string `json:"id,omitempty"`
	CreatedAt Date   `json:"createdAt,omitempty"`
	UpdatedAt Date   `json:"updatedAt,omitempty"`
}

func (r *Record) record() *Record {
	return r
}

// Published is CreatedAt, else UpdatedAt, else the date a file name such
// as "2026-09-01_welcome-back" starts with.
func (r Record) Published() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt.Time()
	}
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt.Time()
	}
	if len(r.ID) >= len("2006-01-02") {
		if t, err := time.Parse("2006-01-02", r.ID[:len("2006-01-02")]); err == nil {
			return t
		}
	}
	return time.Time{}
}

const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var EventStatuses = []string{StatusUpcoming, StatusOngoing, StatusCompleted}

type Event struct {
	Record
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	EventDate        Date   `json:"eventDate"`
	EndDate          Date   `json:"endDate,omitempty"`
	Status           string `json:"status"`
	Category         string `json:"category"`
	FeaturedImage    string `json:"featuredImage,omitempty"`
	Location         string `json:"location,omitempty"`
	RegistrationLink string `json:"registrationLink,omitempty"`
	MaxParticipants  int    `json:"maxParticipants,omitempty"`
	Featured         bool   `json:"featured,omitempty"`
}

func (e *Event) normalize() {
	if e.Status == "" {
		e.Status = StatusUpcoming
	}
	if e.Category == "" {
		e.Category = "other"
	}
}

// Open reports whether registration is still possible.
func (e Event) Open() bool {
	return e.RegistrationLink != "" && e.Status == StatusUpcoming
}

type Announcement struct {
	Record
	Title   string            `json:"title"`
	Content *lexical.Document `json:"content"`
}

type Socials struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Email     string `json:"email,omitempty"`
}

type TeamMember struct {
	Record
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Category string  `json:"category"`
	Year     string  `json:"year,omitempty"`
	Image    string  `json:"image,omitempty"`
	Bio      string  `json:"bio,omitempty"`
	Socials  Socials `json:"socials"`
	Order    int     `json:"order"`
}

func (m *TeamMember) normalize() {
	if m.Category == "" {
		m.Category = "executive_member"
	}
}

// TeamCategories is the display order of the team page.
var TeamCategories = []struct {
	Value string
	Label string
}{
	{"president", "President"},
	{"vice_president", "Vice President"},
	{"joint_president", "Joint President"},
	{"captain", "Captain"},
	{"vice_captain", "Vice Captain"},
	{"general_secretary", "General Secretary"},
	{"joint_secretary", "Joint Secretary"},
	{"design_head", "Design Head"},
	{"management_head", "Management Head"},
	{"treasurer", "Treasurer"},
	{"embedded_head", "Embedded Head"},
	{"mechanical_head", "Mechanical Head"},
	{"cad_lead", "CAD Lead"},
	{"inventory_coord", "Inventory Co-ord"},
	{"inventory_manager", "Inventory Manager"},
	{"web_master", "Web Master"},
	{"workshop_coord", "Workshop Co-ord"},
	{"sponsorship_head", "Sponsorship Head"},
	{"executive_member", "Executive Member"},
}

var GalleryCategories = []string{"competition", "workshop", "event", "team", "project", "other"}

type GalleryItem struct {
	Record
	Title    string `json:"title"`
	Image    string `json:"image"`
	Caption  string `json:"caption,omitempty"`
	Category string `json:"category"`
	Featured bool   `json:"featured,omitempty"`
	Order    int    `json:"order"`
	Active   *bool  `json:"active,omitempty"`
}

func (g *GalleryItem) IsActive() bool {
	return g.Active == nil || *g.Active
}

type Sponsor struct {
	Record
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	Order       int    `json:"order"`
}

func (s *Sponsor) IsActive() bool {
	return s.Active == nil || *s.Active
}

type AboutUs struct {
	Record
	Title        string            `json:"title"`
	HeroTitle    string            `json:"heroTitle,omitempty"`
	HeroSubtitle string            `json:"heroSubtitle,omitempty"`
	MainContent  *lexical.Document `json:"mainContent"`
	Mission      *lexical.Document `json:"mission,omitempty"`
	Vision       *lexical.Document `json:"vision,omitempty"`
	Values       []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Icon        string `json:"icon,omitempty"`
	} `json:"values,omitempty"`
	Achievements []struct {
		Year        string `json:"year"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	} `json:"achievements,omitempty"`
	Stats []struct {
		Label  string  `json:"label"`
		Value  float64 `json:"value"`
		Suffix string  `json:"suffix,omitempty"`
	} `json:"stats,omitempty"`
	FeaturedImage string `json:"featuredImage,omitempty"`
	Gallery       []struct {
		Image   string `json:"image"`
		Caption string `json:"caption,omitempty"`
	} `json:"gallery,omitempty"`
}

type LegalSubsection struct {
	SubsectionTitle   string            `json:"subsectionTitle"`
	SubsectionContent *lexical.Document `json:"subsectionContent"`
}

type LegalSectionData struct {
	SectionTitle   string            `json:"sectionTitle"`
	SectionContent *lexical.Document `json:"sectionContent"`
	Subsections    []LegalSubsection `json:"subsections,omitempty"`
}

type ContactInformation struct {
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// LegalDocument is a privacy policy or terms of service. Only one record of
// a collection is active at a time.
type LegalDocument struct {
	Record
	Title              string              `json:"title"`
	Version            string              `json:"version"`
	EffectiveDate      Date                `json:"effectiveDate"`
	Introduction       *lexical.Document   `json:"introduction"`
	Sections           []LegalSectionData  `json:"sections,omitempty"`
	AcceptanceRequired bool                `json:"acceptanceRequired,omitempty"`
	ContactInformation *ContactInformation `json:"contactInformation,omitempty"`
	IsActive           bool                `json:"isActive"`
}
