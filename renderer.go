package clubcms

import (
	"regexp"
	"sync"

	bm "github.com/microcosm-cc/bluemonday"

	"github.com/roboclub/clubcms/lexical"
)

type ContentRenderer interface {
	Render() ([]byte, error)
}

var (
	policyOnce sync.Once
	policy     *bm.Policy
)

// ugcPolicy is the UGC policy plus what the rich-text renderer emits on top:
// block alignment, list numbering and links opening in a new tab without
// leaking the referrer.
func ugcPolicy() *bm.Policy {
	policyOnce.Do(func() {
		policy = bm.UGCPolicy()
		policy.AllowStyles("text-align").Matching(bm.CellAlign).OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote")
		policy.AllowAttrs("start").Matching(bm.Integer).OnElements("ol")
		policy.AllowAttrs("value").Matching(bm.Integer).OnElements("li")
		policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
		policy.RequireNoReferrerOnLinks(true)
		policy.AllowElements("mark", "u", "s")
	})
	return policy
}

func sanitize(html []byte, unsafe bool) []byte {
	if unsafe {
		return html
	}
	return ugcPolicy().SanitizeBytes(html)
}

type markdownRenderer struct {
	src    string
	unsafe bool
}

// Markdown renders plain text fields such as event descriptions.
func Markdown(src string, unsafe bool) ContentRenderer {
	return markdownRenderer{src: src, unsafe: unsafe}
}

func (m markdownRenderer) Render() ([]byte, error) {
	return sanitize(markdown([]byte(m.src)), m.unsafe), nil
}

type richTextRenderer struct {
	doc    *lexical.Document
	unsafe bool
}

// RichText renders an editor document. A nil document renders empty.
func RichText(doc *lexical.Document, unsafe bool) ContentRenderer {
	return richTextRenderer{doc: doc, unsafe: unsafe}
}

func (r richTextRenderer) Render() ([]byte, error) {
	if r.doc.Empty() {
		return nil, nil
	}
	return sanitize([]byte(lexical.Render(r.doc)), r.unsafe), nil
}
