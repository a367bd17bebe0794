package editor

// State is where a Controller is in the add / edit / delete cycle.
type State int

const (
	Browsing State = iota
	Adding
	Selecting
	Editing
	ConfirmingDelete
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Adding:
		return "adding"
	case Selecting:
		return "selecting"
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming delete"
	}
	return "unknown"
}

// NoticeKind classifies the message shown after an action.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeInvalid
	NoticeConflict
	NoticeError
)

// Notice is the outcome of the last action, for display.
type Notice struct {
	Kind   NoticeKind
	Text   string
	Fields []string
}
