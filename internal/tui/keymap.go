package tui

import "github.com/gdamore/tcell/v2"

// Action represents an operation the key handler performs on the editor.
type Action int

const (
	ActionUnknown Action = iota
	ActionQuit
	ActionSave

	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd

	ActionInsertRune
	ActionInsertNewLine
	ActionInsertTab
	ActionDeleteCharForward
	ActionDeleteCharBackward

	ActionUndo
	ActionRedo
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAll
	ActionClearSelection
	ActionComplete
	ActionFind
	ActionFindNext
)

// ActionEvent is a decoded key press.
type ActionEvent struct {
	Action Action
	Rune   rune // For ActionInsertRune
	Extend bool // Shift was held: movement extends the selection
}

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap  Keymap
	ctrlMap Keymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:  make(Keymap),
		ctrlMap: make(Keymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyTab] = ActionInsertTab
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionClearSelection

	p.ctrlMap[tcell.KeyCtrlQ] = ActionQuit
	p.ctrlMap[tcell.KeyCtrlS] = ActionSave
	p.ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	p.ctrlMap[tcell.KeyCtrlY] = ActionRedo
	p.ctrlMap[tcell.KeyCtrlC] = ActionCopy
	p.ctrlMap[tcell.KeyCtrlX] = ActionCut
	p.ctrlMap[tcell.KeyCtrlV] = ActionPaste
	p.ctrlMap[tcell.KeyCtrlA] = ActionSelectAll
	p.ctrlMap[tcell.KeyCtrlN] = ActionComplete
	p.ctrlMap[tcell.KeyCtrlF] = ActionFind
	p.ctrlMap[tcell.KeyCtrlG] = ActionFindNext
}

// ProcessEvent returns the action bound to ev.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// Control keys arrive as their own key codes; the modifier may or may not be set.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.ctrlMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	if action, ok := p.keymap[key]; ok && mod&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		return ActionEvent{Action: action, Extend: mod&tcell.ModShift != 0}
	}

	if key == tcell.KeyRune && mod&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}
	return ActionEvent{Action: ActionUnknown}
}
