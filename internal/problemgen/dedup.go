package problemgen

import "github.com/abhisek/mathdrill/internal/problem"

// KeySet tracks canonical keys already used in a session.
type KeySet map[string]struct{}

// Add records p and reports whether it was new.
func (s KeySet) Add(p problem.Problem) bool {
	k := p.Key()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Has reports whether p's key is already present.
func (s KeySet) Has(p problem.Problem) bool {
	_, ok := s[p.Key()]
	return ok
}
