package events

const (
	// KindTurnAppended identifies a turn appended to the dialogue history.
	KindTurnAppended Kind = "dialogue.turn_appended"
	// KindComposingChanged identifies a change of the typing indicator.
	KindComposingChanged Kind = "dialogue.composing_changed"
	// KindHistoryCleared identifies removal of every dialogue turn.
	KindHistoryCleared Kind = "dialogue.history_cleared"
)

// TurnAppended carries the turn that was appended.
type TurnAppended struct {
	Base
	ID      string
	Index   int
	Speaker string
	Text    string
}

// NewTurnAppended creates a turn appended event.
func NewTurnAppended(id string, index int, speaker, text string) TurnAppended {
	return TurnAppended{Base: NewBase(KindTurnAppended), ID: id, Index: index, Speaker: speaker, Text: text}
}

// ComposingChanged carries the new state of the typing indicator.
type ComposingChanged struct {
	Base
	Composing bool
}

// NewComposingChanged creates a composing changed event.
func NewComposingChanged(composing bool) ComposingChanged {
	return ComposingChanged{Base: NewBase(KindComposingChanged), Composing: composing}
}

// HistoryCleared marks that the dialogue history was emptied.
type HistoryCleared struct{ Base }

// NewHistoryCleared creates a history cleared event.
func NewHistoryCleared() HistoryCleared {
	return HistoryCleared{Base: NewBase(KindHistoryCleared)}
}
