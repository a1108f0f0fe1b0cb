// Package lexical parses rich-text documents stored by the editor and
// renders them to HTML.
//
// The wire format is the editor's JSON serialization: a "root" node holding
// a tree of typed nodes. Parsing is tolerant and happens once at the
// boundary; rendering works on the typed tree only.
package lexical

// Document is a parsed editor document. A nil Document or a Document with a
// nil Root is "no content" and renders to the empty string.
type Document struct {
	Version int
	Root    *Root
}

// Node is one element of the document tree. The set of implementations is
// closed; kinds the parser does not know become *Unknown.
type Node interface {
	node()
}

// Align is the text alignment of a block node.
type Align string

const (
	AlignNone    Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

type Root struct {
	Children []Node
}

type Paragraph struct {
	Align    Align
	Children []Node
}

type Heading struct {
	Level    int // 1-6
	Align    Align
	Children []Node
}

type Quote struct {
	Align    Align
	Children []Node
}

type List struct {
	Ordered  bool
	Start    int
	Children []Node
}

type ListItem struct {
	Value    int
	Children []Node
}

type Link struct {
	URL      string
	NewTab   bool
	Children []Node
}

// Text is a run of characters sharing one set of format flags.
type Text struct {
	Text   string
	Format Format
}

type LineBreak struct{}

type Tab struct{}

type HorizontalRule struct{}

// Unknown keeps the children of a node whose kind is not recognized.
type Unknown struct {
	Kind     string
	Children []Node
}

func (*Root) node()           {}
func (*Paragraph) node()      {}
func (*Heading) node()        {}
func (*Quote) node()          {}
func (*List) node()           {}
func (*ListItem) node()       {}
func (*Link) node()           {}
func (*Text) node()           {}
func (*LineBreak) node()      {}
func (*Tab) node()            {}
func (*HorizontalRule) node() {}
func (*Unknown) node()        {}

// Empty reports whether the document has nothing to render.
func (d *Document) Empty() bool {
	return d == nil || d.Root == nil || len(d.Root.Children) == 0
}
