package completion

// KeyCode identifies the keys the completion session reacts to.
type KeyCode int

//revive:disable:exported
const (
	KeyOther KeyCode = iota
	// KeyPeriod is "." on the main keyboard or the keypad.
	KeyPeriod
	KeySpace
	KeyEnter
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

//revive:enable:exported

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

//revive:disable:exported
const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
)

//revive:enable:exported

// Phase tells whether a key event arrives before the editor handles it
// (and may be consumed) or after.
type Phase int

//revive:disable:exported
const (
	PhasePreview Phase = iota
	PhasePost
)

//revive:enable:exported

// KeyEvent is what a host forwards for every key press.
type KeyEvent struct {
	Code  KeyCode
	Mods  Modifiers
	Phase Phase
}

// Preview is shorthand for a preview-phase event.
func Preview(code KeyCode, mods Modifiers) KeyEvent {
	return KeyEvent{Code: code, Mods: mods, Phase: PhasePreview}
}

// Activation says how a popup item was picked.
type Activation int

//revive:disable:exported
const (
	// ActivateKeyboard is Enter, Tab or Space inside the popup.
	ActivateKeyboard Activation = iota
	// ActivatePointer is a double click.
	ActivatePointer
)

//revive:enable:exported

// FocusTarget is where keyboard focus went when the editor lost it.
type FocusTarget int

//revive:disable:exported
const (
	FocusElsewhere FocusTarget = iota
	FocusPopup
)

//revive:enable:exported

// TextSurface is the editable text of a host.
type TextSurface interface {
	Text() string
	// SetText replaces the text and moves the caret to the end.
	SetText(s string)
	// Caret is the insertion point as a byte offset into Text.
	Caret() int
}

// Popup is the host's selection list. Calls made while no popup is shown
// must be no-ops.
type Popup interface {
	Open(items []Completion, anchor int)
	Close()
	SetItems(items []Completion)
	SetSelected(index int)
}

// Host is everything a session drives.
type Host interface {
	TextSurface
	Popup
}
