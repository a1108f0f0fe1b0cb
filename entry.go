package clubcms

import (
	"html/template"
	"log/slog"
	"sync"
)

// Block is a piece of page content rendered on first use.
type Block struct {
	once     sync.Once
	html     []byte
	err      error
	renderer ContentRenderer
}

func NewBlock(r ContentRenderer) *Block {
	return &Block{renderer: r}
}

// Render renders the block once and returns the cached result afterwards.
func (b *Block) Render() ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	b.once.Do(func() {
		b.html, b.err = b.renderer.Render()
	})
	return b.html, b.err
}

func (b *Block) HTML() template.HTML {
	html, err := b.Render()
	if err != nil {
		slog.Error("Rendering block failed", "err", err)
	}
	return template.HTML(html)
}

func (b *Block) Empty() bool {
	html, _ := b.Render()
	return len(html) == 0
}
