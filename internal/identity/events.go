package identity

type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

// Event is one session-change notification from the identity provider.
// Events are published to a single buffered channel and consumed by one
// goroutine, so delivery order matches occurrence order.
type Event struct {
	Kind   EventKind
	UserID string
}
