package coordinator

import "nathanbeddoewebdev/usersync/internal/domain"

// pendingSet is an insertion-ordered set of actions keyed by ID.
type pendingSet struct {
	order []string
	byID  map[string]domain.Action
}

func newPendingSet() *pendingSet {
	return &pendingSet{byID: make(map[string]domain.Action)}
}

// add inserts a and reports whether it was new. Re-adding a known ID keeps
// its original position and value.
func (p *pendingSet) add(a domain.Action) bool {
	if _, ok := p.byID[a.ID]; ok {
		return false
	}
	p.byID[a.ID] = a
	p.order = append(p.order, a.ID)
	return true
}

func (p *pendingSet) contains(id string) bool {
	_, ok := p.byID[id]
	return ok
}

func (p *pendingSet) remove(ids []string) {
	removed := 0
	for _, id := range ids {
		if _, ok := p.byID[id]; ok {
			delete(p.byID, id)
			removed++
		}
	}
	if removed == 0 {
		return
	}

	kept := p.order[:0]
	for _, id := range p.order {
		if _, ok := p.byID[id]; ok {
			kept = append(kept, id)
		}
	}
	clear(p.order[len(kept):])
	p.order = kept
}

func (p *pendingSet) len() int {
	return len(p.order)
}

func (p *pendingSet) clear() {
	p.order = nil
	p.byID = make(map[string]domain.Action)
}

// list returns the actions in insertion order, skipping IDs in exclude.
func (p *pendingSet) list(exclude map[string]struct{}) []domain.Action {
	out := make([]domain.Action, 0, len(p.order))
	for _, id := range p.order {
		if _, skip := exclude[id]; skip {
			continue
		}
		out = append(out, p.byID[id])
	}
	return out
}
