package chat

// Phase is an advisory progress notification emitted while a turn is in
// flight. Purely informational; delivery is best effort.
type Phase string

const (
	PhaseUnderstanding Phase = "understanding" // routing the question
	PhaseRetrieving    Phase = "retrieving"    // expert pipelines running
	PhaseComposing     Phase = "composing"     // synthesizing the answer
)

// Notifier receives phase notifications for one turn.
type Notifier interface {
	Notify(phase Phase)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(phase Phase)

func (f NotifierFunc) Notify(phase Phase) {
	f(phase)
}

type noopNotifier struct{}

func (noopNotifier) Notify(Phase) {}
