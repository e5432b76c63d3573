package store

import "time"

// maxHistoryEntries bounds the search history; the oldest entries fall off.
const maxHistoryEntries = 100

// History records executed searches, newest first.
type History struct {
	repo Repository[HistoryEntry]
}

func NewHistory(repo Repository[HistoryEntry]) *History {
	return &History{repo: repo}
}

func (h *History) List() ([]HistoryEntry, error) {
	return h.repo.Load()
}

// Record prepends an entry and trims the list to its cap.
func (h *History) Record(keyword string, platforms []string, resultCount int) error {
	entries, err := h.repo.Load()
	if err != nil {
		return err
	}

	entry := HistoryEntry{
		Keyword:     keyword,
		Platforms:   append([]string(nil), platforms...),
		ResultCount: resultCount,
		SearchedAt:  time.Now(),
	}
	entries = append([]HistoryEntry{entry}, entries...)
	if len(entries) > maxHistoryEntries {
		entries = entries[:maxHistoryEntries]
	}
	return h.repo.Save(entries)
}

// Clear empties the history.
func (h *History) Clear() error {
	return h.repo.Save([]HistoryEntry{})
}
