package clubcms

import (
	"bytes"

	bf "github.com/russross/blackfriday"
)

// ImageAltTitleCopy fills in a missing image title from the alt text and
// the other way around.
type ImageAltTitleCopy struct {
	bf.Renderer
}

func (md ImageAltTitleCopy) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	if len(title) == 0 {
		title = alt
	}
	if len(alt) == 0 {
		alt = title
	}
	md.Renderer.Image(out, link, title, alt)
}

func NewMdModifier(r bf.Renderer) bf.Renderer {
	return ImageAltTitleCopy{r}
}

const mdExtensions = bf.EXTENSION_TABLES |
	bf.EXTENSION_AUTOLINK |
	bf.EXTENSION_STRIKETHROUGH |
	bf.EXTENSION_NO_INTRA_EMPHASIS |
	bf.EXTENSION_FENCED_CODE

func markdown(src []byte) []byte {
	return bf.Markdown(src,
		NewMdModifier(
			bf.HtmlRenderer(0, "", ""),
		), mdExtensions)
}
