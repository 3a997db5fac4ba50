package selection

import (
	"sync"

	"ForecastLens/internal/model"
)

// Entry is one selectable ticker in the sidebar.
type Entry struct {
	Ticker model.TickerSymbol `json:"ticker"`
	Active bool               `json:"active"`
}

// Selection tracks which known ticker is active. At most one entry is
// active at any time.
type Selection struct {
	mu      sync.RWMutex
	tickers []model.TickerSymbol
	known   map[model.TickerSymbol]bool
	active  model.TickerSymbol
}

// New builds a selection over tickers, dropping duplicates and keeping order.
func New(tickers []model.TickerSymbol) *Selection {
	s := &Selection{known: make(map[model.TickerSymbol]bool, len(tickers))}
	for _, t := range tickers {
		if t == "" || s.known[t] {
			continue
		}
		s.known[t] = true
		s.tickers = append(s.tickers, t)
	}
	return s
}

// MarkActive makes t the only active entry. A ticker outside the known list
// clears every flag, mirroring a sidebar that has no entry for it.
func (s *Selection) MarkActive(t model.TickerSymbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.known[t] {
		s.active = t
	} else {
		s.active = ""
	}
}

// Active returns the active ticker and whether one is set.
func (s *Selection) Active() (model.TickerSymbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// Contains reports whether t is a known entry.
func (s *Selection) Contains(t model.TickerSymbol) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known[t]
}

// Entries returns an ordered snapshot of the list with active flags.
func (s *Selection) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.tickers))
	for i, t := range s.tickers {
		out[i] = Entry{Ticker: t, Active: t == s.active}
	}
	return out
}
