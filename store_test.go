package clubcms

import (
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(events []Event) []string {
	var ret []string
	for _, e := range events {
		ret = append(ret, e.Title)
	}
	return ret
}

func TestStoreEvents(t *testing.T) {
	s := testStore()

	all, err := s.Events("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Monthly Meetup", "Arduino Workshop", "Draft", "Robo Wars"}, titles(all))

	completed, err := s.Events(StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "robowars", completed[0].Slug)
	assert.Equal(t, "b-robowars", completed[0].ID)

	draft := all[2]
	assert.Equal(t, StatusUpcoming, draft.Status, "missing status defaults to upcoming")
	assert.Equal(t, "other", draft.Category)

	featured, err := s.FeaturedEvents(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arduino Workshop", "Monthly Meetup"}, titles(featured))

	featured, err = s.FeaturedEvents(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arduino Workshop"}, titles(featured))

	assert.Equal(t, newTime, s.ModTime())
}

func TestStoreAnnouncements(t *testing.T) {
	items, err := testStore().Announcements(0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Recruitment", items[0].Title)
	assert.Equal(t, "Broken body", items[1].Title)
	assert.Equal(t, "Welcome", items[2].Title)
	assert.True(t, items[1].Content.Empty(), "damaged rich text loads as an empty document")

	items, err = testStore().Announcements(2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestStoreAnnouncementsWithoutCreatedAt(t *testing.T) {
	s := NewStore(http.FS(fstest.MapFS{
		"collections/annoucement/2026-01-05_kickoff.json":    file(`{"title":"Kickoff"}`),
		"collections/annoucement/2026-03-01_results.json":    file(`{"title":"Results"}`),
		"collections/annoucement/2026-02-01_midterm.json":    file(`{"title":"Midterm","updatedAt":"2026-04-01"}`),
		"collections/annoucement/2026-02-10_recruiting.json": file(`{"title":"Recruiting","createdAt":"2026-02-10T09:00:00Z"}`),
	}))
	items, err := s.Announcements(0)
	require.NoError(t, err)
	var got []string
	for _, a := range items {
		got = append(got, a.Title)
	}
	assert.Equal(t, []string{"Midterm", "Results", "Recruiting", "Kickoff"}, got)
}

func TestStoreTeam(t *testing.T) {
	groups, err := testStore().Team()
	require.NoError(t, err)

	var got [][]string
	for _, g := range groups {
		names := []string{g.Label}
		for _, m := range g.Members {
			names = append(names, m.Name)
		}
		got = append(got, names)
	}
	assert.Equal(t, [][]string{
		{"President", "Alice"},
		{"Design Head", "Carol", "Bob"},
		{"Executive Member", "Erin"},
		{"Members", "Dave"},
	}, got)
}

func TestStoreGalleryAndSponsors(t *testing.T) {
	s := testStore()

	items, err := s.Gallery("")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Soldering", items[0].Title)
	assert.Equal(t, "Arena", items[1].Title)

	items, err = s.Gallery("workshop")
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = s.FeaturedGallery(0)
	require.NoError(t, err)
	require.Len(t, items, 1, "inactive items are never shown")
	assert.Equal(t, "Arena", items[0].Title)

	sponsors, err := s.Sponsors()
	require.NoError(t, err)
	require.Len(t, sponsors, 2)
	assert.Equal(t, "Globex", sponsors[0].Name)
	assert.Equal(t, "ACME", sponsors[1].Name)
}

func TestStoreSingletons(t *testing.T) {
	s := testStore()

	about, err := s.About()
	require.NoError(t, err)
	assert.Equal(t, "We build robots", about.HeroTitle)
	assert.Nil(t, about.Vision)

	policy, err := s.ActiveLegal(CollectionPrivacyPolicy)
	require.NoError(t, err)
	assert.Equal(t, "2.0", policy.Version)
	require.Len(t, policy.Sections, 2)
	assert.Len(t, policy.Sections[0].Subsections, 2)

	_, err = s.ActiveLegal(CollectionTermsOfService)
	assert.Equal(t, ErrNotFound, errors.Cause(err))

	_, err = NewStore(http.FS(fstest.MapFS{})).About()
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestFindMissingCollection(t *testing.T) {
	items, err := Find[Event](NewStore(http.FS(fstest.MapFS{})), "nothing", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDate(t *testing.T) {
	var d Date
	for _, s := range []string{`"2026-03-10"`, `"2026-03-10 18:00"`, `"2026-03-10T18:00:00Z"`, `"2026-03-10T18:00"`} {
		require.NoError(t, d.UnmarshalJSON([]byte(s)), s)
		assert.Equal(t, 2026, d.Time().Year())
	}
	assert.Error(t, d.UnmarshalJSON([]byte(`"tomorrow"`)))

	require.NoError(t, d.UnmarshalJSON([]byte(`""`)))
	assert.True(t, d.IsZero())
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}
