package completion

// BufferHost is an in-memory Host. It backs the one-shot CLI and tests, and
// records the popup the way a real host would show it.
type BufferHost struct {
	text     string
	open     bool
	items    []Completion
	selected int
	anchor   int
	opens    int
}

// NewBufferHost returns a host holding text with the caret at the end.
func NewBufferHost(text string) *BufferHost {
	return &BufferHost{text: text}
}

func (b *BufferHost) Text() string { return b.text }

func (b *BufferHost) SetText(s string) { b.text = s }

func (b *BufferHost) Caret() int { return len(b.text) }

// Type appends s as if typed after the caret.
func (b *BufferHost) Type(s string) { b.text += s }

func (b *BufferHost) Open(items []Completion, anchor int) {
	b.open = true
	b.items = items
	b.anchor = anchor
	b.selected = 0
	b.opens++
}

func (b *BufferHost) Close() {
	if !b.open {
		return
	}
	b.open = false
	b.items = nil
	b.selected = 0
}

func (b *BufferHost) SetItems(items []Completion) {
	if !b.open {
		return
	}
	b.items = items
}

func (b *BufferHost) SetSelected(index int) {
	if !b.open {
		return
	}
	b.selected = index
}

// IsOpen reports whether the popup is shown.
func (b *BufferHost) IsOpen() bool { return b.open }

// Items returns the rows currently shown.
func (b *BufferHost) Items() []Completion { return b.items }

// Selected returns the highlighted row index.
func (b *BufferHost) Selected() int { return b.selected }

// Anchor returns the caret offset the popup was opened at.
func (b *BufferHost) Anchor() int { return b.anchor }

// Opens counts how many times the popup was opened.
func (b *BufferHost) Opens() int { return b.opens }
