// internal/event/event.go
package event

import "github.com/bethropolis/tidecore/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	TypeBufferModified // Fired after every primitive insert/delete, including undo/redo replays
	TypeBufferLoaded   // Fired after a buffer is loaded or replaced wholesale
	TypeBufferSaved    // Fired after a buffer is successfully saved
	TypeUndo           // Fired after an undo step was applied
	TypeRedo           // Fired after a redo step was applied
	TypeCursorMoved    // Fired when the editor caret moves
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeUndo:
		return "Undo"
	case TypeRedo:
		return "Redo"
	case TypeCursorMoved:
		return "CursorMoved"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData carries the primitive edit that changed the buffer.
type BufferModifiedData struct {
	Edit types.EditInfo
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// HistoryData reports the caret and selection restored by undo or redo.
type HistoryData struct {
	Caret     int
	Selection types.Selection
}

// CursorMovedData contains the new caret offset.
type CursorMovedData struct {
	Offset int
}
