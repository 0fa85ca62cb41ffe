package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/exprsense/internal/completion"
)

// keyEvent translates a Bubble Tea key press into a preview-phase event.
func keyEvent(msg tea.KeyPressMsg) completion.KeyEvent {
	k := msg.Key()
	ev := completion.KeyEvent{Phase: completion.PhasePreview}
	switch k.Code {
	case '.', tea.KeyKpDecimal:
		ev.Code = completion.KeyPeriod
	case tea.KeySpace:
		ev.Code = completion.KeySpace
	case tea.KeyEnter, tea.KeyKpEnter:
		ev.Code = completion.KeyEnter
	case tea.KeyTab:
		ev.Code = completion.KeyTab
	case tea.KeyEscape:
		ev.Code = completion.KeyEscape
	case tea.KeyUp:
		ev.Code = completion.KeyUp
	case tea.KeyDown:
		ev.Code = completion.KeyDown
	case tea.KeyPgUp:
		ev.Code = completion.KeyPageUp
	case tea.KeyPgDown:
		ev.Code = completion.KeyPageDown
	case tea.KeyHome:
		ev.Code = completion.KeyHome
	case tea.KeyEnd:
		ev.Code = completion.KeyEnd
	default:
		ev.Code = completion.KeyOther
	}
	if k.Mod&tea.ModCtrl != 0 {
		ev.Mods |= completion.ModCtrl
	}
	if k.Mod&tea.ModShift != 0 {
		ev.Mods |= completion.ModShift
	}
	if k.Mod&tea.ModAlt != 0 {
		ev.Mods |= completion.ModAlt
	}
	return ev
}
