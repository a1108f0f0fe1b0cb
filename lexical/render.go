package lexical

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Render converts doc to an HTML fragment. It never fails: an absent
// document gives "", nodes of unknown kind contribute the markup of their
// children without a wrapper, and malformed nodes render empty.
//
// Render is pure; identical documents always give identical output.
func Render(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var w writer
	w.children(doc.Root.Children)
	return w.String()
}

type writer struct {
	strings.Builder
}

func (w *writer) children(nodes []Node) {
	for _, n := range nodes {
		w.node(n)
	}
}

func (w *writer) node(n Node) {
	if isNil(n) {
		return
	}
	switch n := n.(type) {
	case *Root:
		w.children(n.Children)
	case *Paragraph:
		w.block("p", n.Align, n.Children)
	case *Heading:
		w.block(headingTag(n.Level), n.Align, n.Children)
	case *Quote:
		w.block("blockquote", n.Align, n.Children)
	case *List:
		w.list(n)
	case *ListItem:
		w.listItem(n, false)
	case *Link:
		w.link(n)
	case *Text:
		w.text(n)
	case *LineBreak:
		w.WriteString("<br>")
	case *Tab:
		w.WriteString("\t")
	case *HorizontalRule:
		w.WriteString("<hr>")
	case *Unknown:
		w.children(n.Children)
	}
}

// isNil reports whether n is nil or holds a nil pointer of a known kind.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Root:
		return n == nil
	case *Paragraph:
		return n == nil
	case *Heading:
		return n == nil
	case *Quote:
		return n == nil
	case *List:
		return n == nil
	case *ListItem:
		return n == nil
	case *Link:
		return n == nil
	case *Text:
		return n == nil
	case *LineBreak:
		return n == nil
	case *Tab:
		return n == nil
	case *HorizontalRule:
		return n == nil
	case *Unknown:
		return n == nil
	}
	return false
}

func (w *writer) block(tag string, align Align, children []Node) {
	w.WriteString("<" + tag)
	if align != AlignNone {
		w.WriteString(` style="text-align: ` + EscapeAttr(string(align)) + `;"`)
	}
	w.WriteString(">")
	w.children(children)
	w.WriteString("</" + tag + ">")
}

func headingTag(level int) string {
	switch {
	case level < 1:
		level = 1
	case level > 6:
		level = 6
	}
	return "h" + strconv.Itoa(level)
}

func (w *writer) list(l *List) {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	w.WriteString("<" + tag)
	if l.Ordered && l.Start != 0 && l.Start != 1 {
		w.WriteString(` start="` + strconv.Itoa(l.Start) + `"`)
	}
	w.WriteString(">")
	for _, c := range l.Children {
		if li, ok := c.(*ListItem); ok {
			if li != nil {
				w.listItem(li, l.Ordered)
			}
			continue
		}
		w.node(c)
	}
	w.WriteString("</" + tag + ">")
}

func (w *writer) listItem(li *ListItem, ordered bool) {
	w.WriteString("<li")
	if ordered && li.Value > 0 {
		w.WriteString(` value="` + strconv.Itoa(li.Value) + `"`)
	}
	w.WriteString(">")
	w.children(li.Children)
	w.WriteString("</li>")
}

func (w *writer) link(l *Link) {
	w.WriteString(`<a href="` + EscapeAttr(SafeURL(l.URL)) + `"`)
	if l.NewTab {
		w.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	w.WriteString(">")
	w.children(l.Children)
	w.WriteString("</a>")
}

func (w *writer) text(t *Text) {
	if t.Text == "" {
		return
	}
	tags := t.Format.Tags()
	for _, tag := range tags {
		w.WriteString("<" + tag + ">")
	}
	w.WriteString(EscapeText(t.Text))
	for i := len(tags) - 1; i >= 0; i-- {
		w.WriteString("</" + tags[i] + ">")
	}
}

// PlainText returns the text content of doc with one line per block.
func PlainText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var b strings.Builder
	plain(&b, doc.Root.Children)
	return strings.TrimSpace(b.String())
}

func plain(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		if isNil(n) {
			continue
		}
		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Text)
		case *LineBreak:
			b.WriteString("\n")
		case *Tab:
			b.WriteString("\t")
		case *Paragraph:
			plain(b, n.Children)
			b.WriteString("\n")
		case *Heading:
			plain(b, n.Children)
			b.WriteString("\n")
		case *Quote:
			plain(b, n.Children)
			b.WriteString("\n")
		case *ListItem:
			plain(b, n.Children)
			b.WriteString("\n")
		case *List:
			plain(b, n.Children)
		case *Link:
			plain(b, n.Children)
		case *Unknown:
			plain(b, n.Children)
		case *Root:
			plain(b, n.Children)
		}
	}
}

// Excerpt returns at most max runes of the plain text of doc on a single
// line, cut at a word boundary when possible.
func Excerpt(doc *Document, max int) string {
	s := strings.Join(strings.Fields(PlainText(doc)), " ")
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	cut := string(r[:max])
	if r[max] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return cut + "…"
}
