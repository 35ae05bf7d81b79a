package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueReplay schedules a rebuild of every card in the deck from its
	// review history.
	EnqueueReplay(userID, deckID int64) error
}
