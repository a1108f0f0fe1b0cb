package lexical

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// Parse reads an editor document from r. Input that is not JSON yields nil,
// which renders as an empty document.
func Parse(r io.Reader) *Document {
	var v interface{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil
	}
	return FromValue(v)
}

// ParseBytes is Parse for an in-memory document.
func ParseBytes(b []byte) *Document {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return Parse(bytes.NewReader(b))
}

// FromValue builds a Document from an already decoded JSON value. Both the
// full editor state ({"root": {...}}) and a bare root node are accepted.
// Anything else yields nil.
func FromValue(v interface{}) *Document {
	switch t := v.(type) {
	case *Document:
		return t
	case []byte:
		return ParseBytes(t)
	case json.RawMessage:
		return ParseBytes(t)
	case string:
		return ParseBytes([]byte(t))
	}

	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	if root, ok := m["root"].(map[string]interface{}); ok {
		m = root
	} else if getString(m, "type") != "root" {
		return nil
	}

	return &Document{
		Version: getInt(m, "version"),
		Root:    &Root{Children: parseChildren(m)},
	}
}

// UnmarshalJSON decodes a document without ever failing, so a record with a
// damaged rich-text field still loads. The damaged field renders empty.
func (d *Document) UnmarshalJSON(b []byte) error {
	if p := ParseBytes(b); p != nil {
		*d = *p
	} else {
		*d = Document{}
	}
	return nil
}

func parseChildren(m map[string]interface{}) []Node {
	raw, ok := m["children"].([]interface{})
	if !ok {
		return nil
	}
	children := make([]Node, 0, len(raw))
	for _, c := range raw {
		cm, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		children = append(children, parseNode(cm))
	}
	return children
}

func parseNode(m map[string]interface{}) Node {
	kind := getString(m, "type")
	switch kind {
	case "paragraph":
		return &Paragraph{Align: parseAlign(m), Children: parseChildren(m)}
	case "heading":
		return &Heading{Level: parseHeadingLevel(getString(m, "tag")), Align: parseAlign(m), Children: parseChildren(m)}
	case "quote":
		return &Quote{Align: parseAlign(m), Children: parseChildren(m)}
	case "list":
		return parseList(m)
	case "listitem":
		return &ListItem{Value: getInt(m, "value"), Children: parseChildren(m)}
	case "link", "autolink":
		return parseLink(m)
	case "text":
		return &Text{Text: getString(m, "text"), Format: Format(getInt(m, "format"))}
	case "linebreak":
		return &LineBreak{}
	case "tab":
		return &Tab{}
	case "horizontalrule":
		return &HorizontalRule{}
	default:
		return &Unknown{Kind: kind, Children: parseChildren(m)}
	}
}

func parseList(m map[string]interface{}) *List {
	l := &List{Start: getInt(m, "start"), Children: parseChildren(m)}
	switch getString(m, "listType") {
	case "number":
		l.Ordered = true
	case "bullet", "check":
	default:
		l.Ordered = getString(m, "tag") == "ol"
	}
	return l
}

// parseLink understands both the plain editor link (url/target on the node)
// and links with a "fields" object. Links to internal documents point at the
// collection page of the referenced document.
func parseLink(m map[string]interface{}) *Link {
	l := &Link{
		URL:      getString(m, "url"),
		NewTab:   getString(m, "target") == "_blank",
		Children: parseChildren(m),
	}
	fields, ok := m["fields"].(map[string]interface{})
	if !ok {
		return l
	}
	if u := getString(fields, "url"); u != "" {
		l.URL = u
	}
	if getBool(fields, "newTab") {
		l.NewTab = true
	}
	if getString(fields, "linkType") == "internal" {
		if doc, ok := fields["doc"].(map[string]interface{}); ok {
			if rel := getString(doc, "relationTo"); rel != "" {
				l.URL = "/" + rel
			}
		}
	}
	return l
}

func parseHeadingLevel(tag string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(tag), "h"))
	if err != nil {
		return 2
	}
	switch {
	case n < 1:
		return 1
	case n > 6:
		return 6
	}
	return n
}

func parseAlign(m map[string]interface{}) Align {
	switch a := Align(getString(m, "format")); a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return a
	}
	return AlignNone
}

func getString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		i, _ := v.Int64()
		return int(i)
	}
	return 0
}

func getBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}
