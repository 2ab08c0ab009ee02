package domain

import "encoding/json"

type CandidateID string

// Candidate is a recommended user. Only ID is interpreted; Raw carries the
// remote record unchanged.
type Candidate struct {
	ID   CandidateID
	Name string
	Raw  json.RawMessage
}

// CandidatePool keeps one candidate per id in first-insertion order.
// Upserting an existing id replaces the record in place.
type CandidatePool struct {
	order []CandidateID
	byID  map[CandidateID]Candidate
}

func NewCandidatePool() *CandidatePool {
	return &CandidatePool{byID: map[CandidateID]Candidate{}}
}

// Upsert reports whether the candidate was new to the pool.
func (p *CandidatePool) Upsert(candidate Candidate) bool {
	if p.byID == nil {
		p.byID = map[CandidateID]Candidate{}
	}

	_, exists := p.byID[candidate.ID]
	p.byID[candidate.ID] = candidate
	if !exists {
		p.order = append(p.order, candidate.ID)
	}

	return !exists
}

// Merge upserts every candidate and returns how many were new.
func (p *CandidatePool) Merge(candidates []Candidate) int {
	added := 0
	for _, candidate := range candidates {
		if p.Upsert(candidate) {
			added++
		}
	}

	return added
}

func (p *CandidatePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

func (p *CandidatePool) Get(id CandidateID) (Candidate, bool) {
	if p == nil {
		return Candidate{}, false
	}
	candidate, ok := p.byID[id]
	return candidate, ok
}

func (p *CandidatePool) Candidates() []Candidate {
	if p == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(p.order))
	for _, id := range p.order {
		candidates = append(candidates, p.byID[id])
	}

	return candidates
}
