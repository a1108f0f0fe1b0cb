package clubcms

import (
	"net/http"
	"strings"
	"testing/fstest"
	"time"
)

var (
	oldTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
)

func richText(paragraphs ...string) string {
	var parts []string
	for _, p := range paragraphs {
		parts = append(parts, `{"type":"paragraph","children":[{"type":"text","format":0,"text":`+p+`}]}`)
	}
	return `{"root":{"type":"root","version":1,"children":[` + strings.Join(parts, ",") + `]}}`
}

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), ModTime: oldTime}
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"collections/events/a-workshop.json": &fstest.MapFile{Data: []byte(`{
			"title": "Arduino Workshop",
			"slug": "arduino",
			"description": "Bring a **laptop**",
			"eventDate": "2026-11-01T10:00:00Z",
			"status": "upcoming",
			"category": "workshop",
			"featured": true,
			"location": "Lab 3",
			"registrationLink": "https://example.com/register"
		}`), ModTime: newTime},
		"collections/events/b-robowars.yaml": file(`
title: Robo Wars
slug: robowars
description: "Fight <b>hard</b>"
eventDate: "2026-03-10"
status: completed
category: competition
featured: true
`),
		"collections/events/c-meetup.json": file(`{"title":"Monthly Meetup","slug":"meetup","description":"Pizza","eventDate":"2026-12-05 18:00","status":"ongoing","category":"meetup","featured":true}`),
		"collections/events/d-draft.json":  file(`{"title":"Draft","slug":"draft","description":"tbd","eventDate":"2026-07-01"}`),
		"collections/events/broken.json":   file(`{"title":`),
		"collections/events/notes.txt":     file(`not a record`),

		"collections/annoucement/first.json": file(`{"title":"Welcome","createdAt":"2026-01-10T09:00:00Z","content":` +
			richText(`"Hello <script>alert(1)</script> members"`) + `}`),
		"collections/annoucement/second.json": file(`{"title":"Recruitment","createdAt":"2026-02-20T09:00:00Z","content":` +
			richText(`"We are recruiting"`) + `}`),
		"collections/annoucement/third.json": file(`{"title":"Broken body","createdAt":"2026-02-01T09:00:00Z","content":"oops"}`),

		"collections/team-members/alice.json": file(`{"name":"Alice","role":"President","category":"president","order":1}`),
		"collections/team-members/bob.json":   file(`{"name":"Bob","role":"Designer","category":"design_head","order":2}`),
		"collections/team-members/carol.json": file(`{"name":"Carol","role":"Designer","category":"design_head","order":1}`),
		"collections/team-members/dave.json":  file(`{"name":"Dave","role":"Mascot","category":"mascot","order":1}`),
		"collections/team-members/erin.json":  file(`{"name":"Erin","role":"Member","order":5}`),

		"collections/gallery/1.json": file(`{"title":"Arena","image":"arena.jpg","category":"competition","order":2,"featured":true}`),
		"collections/gallery/2.json": file(`{"title":"Soldering","image":"solder.jpg","category":"workshop","order":1}`),
		"collections/gallery/3.json": file(`{"title":"Hidden","image":"hidden.jpg","category":"workshop","order":0,"active":false,"featured":true}`),

		"collections/sponsors/acme.json":    file(`{"name":"ACME","website":"https://acme.example","order":2}`),
		"collections/sponsors/globex.json":  file(`{"name":"Globex","logo":"globex.png","order":1}`),
		"collections/sponsors/initech.json": file(`{"name":"Initech","active":false,"order":0}`),

		"collections/about-us/about.json": file(`{"title":"About","heroTitle":"We build robots","mainContent":` +
			richText(`"Founded in 2015"`) + `,"mission":` + richText(`"Teach robotics"`) + `,"values":[{"title":"Curiosity","description":"Ask why"}]}`),

		"collections/privacy-policy/2025.json": file(`{"title":"Old Policy","version":"1.0","isActive":false}`),
		"collections/privacy-policy/2026.json": file(`{
			"title": "Privacy Policy",
			"version": "2.0",
			"effectiveDate": "2026-01-01",
			"isActive": true,
			"introduction": ` + richText(`"We respect your privacy."`) + `,
			"sections": [
				{"sectionTitle": "Data", "sectionContent": ` + richText(`"What we collect."`) + `,
				 "subsections": [
					{"subsectionTitle": "Email", "subsectionContent": ` + richText(`"Your address."`) + `},
					{"subsectionTitle": "Logs", "subsectionContent": null}
				 ]},
				{"sectionTitle": "Rights", "sectionContent": ` + richText(`"You may ask."`) + `}
			],
			"contactInformation": {"email": "privacy@example.com"}
		}`),

		"static/style.css":  file(`body{}`),
		"static/robots.txt": file("User-agent: *\n"),
		"static/.secret":    file(`nope`),
		"media/arena.jpg":   file(`jpg`),
	}
}

func testStore() *Store {
	return NewStore(http.FS(testContent()))
}
