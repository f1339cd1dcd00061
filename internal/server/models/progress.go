package models

import "slices"

// ProgressState is everything the server knows about one player's run.
type ProgressState struct {
	// Completed holds the completed level ids, sorted.
	Completed []string
	// LastPage is the last level page fetched, nil if none yet.
	LastPage *string
}

// HasCompleted reports whether levelID is in the completed set.
func (p *ProgressState) HasCompleted(levelID string) bool {
	_, found := slices.BinarySearch(p.Completed, levelID)
	return found
}
