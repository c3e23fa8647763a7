package presence

import (
	"sort"
	"sync"
)

// Store guards the last-observed [Snapshot]. The poll loop is its only
// writer; readers such as the HTTP listing get copies.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewStore returns a Store holding an empty snapshot.
func NewStore() *Store {
	return &Store{snap: Snapshot{}}
}

// Read returns a copy of the current snapshot.
func (s *Store) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Replace swaps in next as the current snapshot. The store keeps its own
// copy, so the caller may keep using next.
func (s *Store) Replace(next Snapshot) {
	cp := next.Clone()
	s.mu.Lock()
	s.snap = cp
	s.mu.Unlock()
}

// Len returns the number of observed accounts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snap)
}

// Entry is one account in a [Store.List] result.
type Entry struct {
	SteamID uint64 `json:"steam_id,string"`
	State
}

// List returns the snapshot as entries sorted by profile name, then id.
func (s *Store) List() []Entry {
	snap := s.Read()
	out := make([]Entry, 0, len(snap))
	for id, st := range snap {
		out = append(out, Entry{SteamID: id, State: st})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProfileName != out[j].ProfileName {
			return out[i].ProfileName < out[j].ProfileName
		}
		return out[i].SteamID < out[j].SteamID
	})
	return out
}
