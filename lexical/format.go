package lexical

// Format is the set of inline style flags of a text run. The bit values are
// the ones the editor writes into the "format" field.
type Format int

const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
	FormatHighlight
)

func (f Format) Has(flag Format) bool {
	return f&flag != 0
}

// inlineTags lists the wrapper tag of every flag, outermost first. Wrapping
// always follows this order, independent of bit order or input.
var inlineTags = []struct {
	flag Format
	tag  string
}{
	{FormatBold, "strong"},
	{FormatItalic, "em"},
	{FormatUnderline, "u"},
	{FormatStrikethrough, "s"},
	{FormatSubscript, "sub"},
	{FormatSuperscript, "sup"},
	{FormatCode, "code"},
	{FormatHighlight, "mark"},
}

// Tags returns the wrapper tags for f, outermost first.
func (f Format) Tags() []string {
	var tags []string
	for _, t := range inlineTags {
		if f.Has(t.flag) {
			tags = append(tags, t.tag)
		}
	}
	return tags
}
