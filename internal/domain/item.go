package domain

import "time"

// Item is a single prompt/expected-answer pair from a vocabulary set.
type Item struct {
	Front string
	Back  string
}

// Store is the ordered sequence of items for one study session.
// Indices into Items are stable for the lifetime of the session.
type Store struct {
	Items []Item
	// Sets holds the canonical names of the resolved sets in resolution order.
	Sets []string
}

// Len returns the number of items in the store.
func (s Store) Len() int {
	return len(s.Items)
}

// AnswerRecord records a single answer given during a session.
type AnswerRecord struct {
	SessionID  string
	ItemHash   string
	Front      string
	Back       string
	Answer     string
	Correct    bool
	AnsweredAt time.Time
}
