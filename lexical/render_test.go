package lexical

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(children ...string) string {
	return `{"root":{"type":"root","version":1,"children":[` + strings.Join(children, ",") + `]}}`
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "null document",
			json: `null`,
			want: "",
		},
		{
			name: "missing root",
			json: `{"foo":1}`,
			want: "",
		},
		{
			name: "root without children",
			json: `{"root":{"type":"root"}}`,
			want: "",
		},
		{
			name: "paragraph",
			json: doc(`{"type":"paragraph","format":"","children":[{"type":"text","text":"Hello","format":0}]}`),
			want: "<p>Hello</p>",
		},
		{
			name: "bold and italic",
			json: doc(`{"type":"paragraph","children":[{"type":"text","text":"Hi","format":3}]}`),
			want: "<p><strong><em>Hi</em></strong></p>",
		},
		{
			name: "all flags in canonical order",
			json: doc(`{"type":"paragraph","children":[{"type":"text","text":"x","format":255}]}`),
			want: "<p><strong><em><u><s><sub><sup><code><mark>x</mark></code></sup></sub></s></u></em></strong></p>",
		},
		{
			name: "script is escaped",
			json: doc(`{"type":"paragraph","children":[{"type":"text","text":"<script>alert(1)</script>"}]}`),
			want: "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>",
		},
		{
			name: "link",
			json: doc(`{"type":"paragraph","children":[{"type":"link","url":"https://example.com","children":[{"type":"text","text":"site"}]}]}`),
			want: `<p><a href="https://example.com">site</a></p>`,
		},
		{
			name: "link with fields and new tab",
			json: doc(`{"type":"paragraph","children":[{"type":"link","fields":{"url":"https://example.com/?a=1&b=2","newTab":true,"linkType":"custom"},"children":[{"type":"text","text":"go"}]}]}`),
			want: `<p><a href="https://example.com/?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">go</a></p>`,
		},
		{
			name: "internal link",
			json: doc(`{"type":"link","fields":{"linkType":"internal","doc":{"relationTo":"events","value":3}},"children":[{"type":"text","text":"events"}]}`),
			want: `<a href="/events">events</a>`,
		},
		{
			name: "javascript link",
			json: doc(`{"type":"link","url":"javascript:alert(1)","children":[{"type":"text","text":"x"}]}`),
			want: `<a href="#">x</a>`,
		},
		{
			name: "heading and bullet list",
			json: doc(
				`{"type":"heading","tag":"h2","children":[{"type":"text","text":"Title"}]}`,
				`{"type":"list","listType":"bullet","tag":"ul","start":1,"children":[`+
					`{"type":"listitem","value":1,"children":[{"type":"text","text":"one"}]},`+
					`{"type":"listitem","value":2,"children":[{"type":"text","text":"two"}]}]}`,
			),
			want: "<h2>Title</h2><ul><li>one</li><li>two</li></ul>",
		},
		{
			name: "numbered list with start",
			json: doc(`{"type":"list","listType":"number","start":3,"children":[` +
				`{"type":"listitem","value":3,"children":[{"type":"text","text":"c"}]},` +
				`{"type":"listitem","value":4,"children":[{"type":"text","text":"d"}]}]}`),
			want: `<ol start="3"><li value="3">c</li><li value="4">d</li></ol>`,
		},
		{
			name: "quote with alignment",
			json: doc(`{"type":"quote","format":"center","children":[{"type":"text","text":"q"}]}`),
			want: `<blockquote style="text-align: center;">q</blockquote>`,
		},
		{
			name: "line break tab and rule",
			json: doc(`{"type":"paragraph","children":[{"type":"text","text":"a"},{"type":"linebreak"},{"type":"tab","text":"\t"},{"type":"text","text":"b"}]}`, `{"type":"horizontalrule"}`),
			want: "<p>a<br>\tb</p><hr>",
		},
		{
			name: "heading level out of range",
			json: doc(`{"type":"heading","tag":"h9","children":[{"type":"text","text":"x"}]}`),
			want: "<h6>x</h6>",
		},
		{
			name: "heading without tag",
			json: doc(`{"type":"heading","children":[{"type":"text","text":"x"}]}`),
			want: "<h2>x</h2>",
		},
		{
			name: "unknown kind keeps children",
			json: doc(`{"type":"upload","value":{"id":1}}`, `{"type":"collapsible","children":[{"type":"text","text":"inner"}]}`, `{"type":"paragraph","children":[{"type":"text","text":"ok"}]}`),
			want: "inner<p>ok</p>",
		},
		{
			name: "malformed nodes render empty",
			json: doc(`{"type":"text","text":null}`, `{"type":"paragraph","children":"nope"}`, `42`, `{"type":"text","text":"kept"}`),
			want: "<p></p>kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(ParseBytes([]byte(tt.json))))
		})
	}
}

func TestRenderNil(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render(&Document{}))
	assert.Equal(t, "", Render(ParseBytes(nil)))
	assert.Equal(t, "", Render(ParseBytes([]byte("not json"))))
}

func TestRenderSkipsNilNodes(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"nil interface", nil},
		{"nil text", (*Text)(nil)},
		{"nil paragraph", (*Paragraph)(nil)},
		{"nil heading", (*Heading)(nil)},
		{"nil quote", (*Quote)(nil)},
		{"nil link", (*Link)(nil)},
		{"nil list", (*List)(nil)},
		{"nil list item", (*ListItem)(nil)},
		{"nil unknown", (*Unknown)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{Root: &Root{Children: []Node{
				&Text{Text: "before"},
				tt.node,
				&Paragraph{Children: []Node{&Text{Text: "after"}, tt.node}},
			}}}
			assert.Equal(t, "before<p>after</p>", Render(d))
			assert.Equal(t, "beforeafter", PlainText(d))
		})
	}

	l := &List{Ordered: true, Children: []Node{(*ListItem)(nil), &ListItem{Children: []Node{&Text{Text: "one"}}}}}
	assert.Equal(t, "<ol><li>one</li></ol>", Render(&Document{Root: &Root{Children: []Node{l}}}))
}

func TestRenderDeterministic(t *testing.T) {
	d := ParseBytes([]byte(doc(
		`{"type":"heading","tag":"h1","children":[{"type":"text","text":"A & B","format":9}]}`,
		`{"type":"paragraph","children":[{"type":"text","text":"x","format":96},{"type":"link","url":"/a","children":[{"type":"text","text":"y","format":6}]}]}`,
	)))
	first := Render(d)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Render(d))
	}
	assert.Equal(t, first, Render(ParseBytes([]byte(doc(
		`{"type":"heading","tag":"h1","children":[{"type":"text","text":"A & B","format":9}]}`,
		`{"type":"paragraph","children":[{"type":"text","text":"x","format":96},{"type":"link","url":"/a","children":[{"type":"text","text":"y","format":6}]}]}`,
	)))))
}

var knownTags = regexp.MustCompile(`</?(p|strong|em|u|s|sub|sup|code|mark)>`)

func TestRenderEscapesEveryFlagCombination(t *testing.T) {
	text, err := json.Marshal(`<b> & "q" 'a' </b>`)
	require.NoError(t, err)

	for f := Format(0); f < 256; f++ {
		out := Render(ParseBytes([]byte(doc(
			`{"type":"paragraph","children":[{"type":"text","format":` + itoa(int(f)) + `,"text":` + string(text) + `}]}`,
		))))
		stripped := knownTags.ReplaceAllString(out, "")
		assert.NotContains(t, stripped, "<", "format %d", f)
		assert.NotContains(t, stripped, ">", "format %d", f)
		assert.NotContains(t, stripped, `"`, "format %d", f)
		assert.Equal(t, "&lt;b&gt; &amp; &#34;q&#34; &#39;a&#39; &lt;/b&gt;", stripped, "format %d", f)
	}
}

func TestFormatTagsOrder(t *testing.T) {
	canonical := []string{"strong", "em", "u", "s", "sub", "sup", "code", "mark"}
	for f := Format(0); f < 256; f++ {
		tags := f.Tags()
		i := 0
		for _, tag := range tags {
			for i < len(canonical) && canonical[i] != tag {
				i++
			}
			require.Less(t, i, len(canonical), "format %d gives %v", f, tags)
		}
	}
	assert.Equal(t, []string{"strong", "em"}, (FormatItalic | FormatBold).Tags())
	assert.Equal(t, []string{"u", "s"}, (FormatStrikethrough | FormatUnderline).Tags())
	assert.Nil(t, Format(0).Tags())
}

func TestDocumentUnmarshalJSON(t *testing.T) {
	var rec struct {
		Title string    `json:"title"`
		Body  *Document `json:"body"`
		Intro *Document `json:"intro"`
	}
	err := json.Unmarshal([]byte(`{"title":"t","body":42,"intro":`+doc(`{"type":"paragraph","children":[{"type":"text","text":"hi"}]}`)+`}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, "t", rec.Title)
	require.NotNil(t, rec.Body)
	assert.Equal(t, "", Render(rec.Body))
	assert.Equal(t, "<p>hi</p>", Render(rec.Intro))
	assert.Equal(t, 1, rec.Intro.Version)

	rec.Body = nil
	require.NoError(t, json.Unmarshal([]byte(`{"body":null}`), &rec))
	assert.Nil(t, rec.Body)
}

func TestFromValue(t *testing.T) {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"root","children":[{"type":"text","text":"bare"}]}`), &v))
	assert.Equal(t, "bare", Render(FromValue(v)))

	assert.Nil(t, FromValue([]interface{}{1, 2}))
	assert.Nil(t, FromValue(map[string]interface{}{"type": "paragraph"}))
	assert.Equal(t, "<p>s</p>", Render(FromValue(doc(`{"type":"paragraph","children":[{"type":"text","text":"s"}]}`))))
}

func TestPlainTextAndExcerpt(t *testing.T) {
	d := ParseBytes([]byte(doc(
		`{"type":"heading","tag":"h1","children":[{"type":"text","text":"Robot <Wars>"}]}`,
		`{"type":"paragraph","children":[{"type":"text","text":"Join us "},{"type":"link","url":"/events","children":[{"type":"text","text":"here","format":1}]},{"type":"linebreak"},{"type":"text","text":"today"}]}`,
	)))
	assert.Equal(t, "Robot <Wars>\nJoin us here\ntoday", PlainText(d))
	assert.Equal(t, "Robot <Wars> Join us here today", Excerpt(d, 0))
	assert.Equal(t, "Robot <Wars> Join us…", Excerpt(d, 20))
	assert.Equal(t, "Robot <Wars> Join us…", Excerpt(d, 23))
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "", Excerpt(nil, 10))
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
