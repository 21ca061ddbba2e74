package allocation

import "picking/pkg/models"

// CandidateQueue holds the stock candidates for one item in provider
// delivery order (oldest stock first). Allocation consumes from the front;
// a partially consumed candidate is spliced back to the front so that a
// warehouse already in use stays preferred for the item's remaining lines.
type CandidateQueue struct {
	candidates []models.LocationCandidate
}

func NewCandidateQueue(candidates []models.LocationCandidate) *CandidateQueue {
	return &CandidateQueue{candidates: candidates}
}

func (q *CandidateQueue) Len() int {
	return len(q.candidates)
}

func (q *CandidateQueue) Empty() bool {
	return len(q.candidates) == 0
}

func (q *CandidateQueue) PopFront() (models.LocationCandidate, bool) {
	if len(q.candidates) == 0 {
		return models.LocationCandidate{}, false
	}
	front := q.candidates[0]
	q.candidates = q.candidates[1:]
	return front, true
}

func (q *CandidateQueue) PushFront(candidate models.LocationCandidate) {
	q.candidates = append([]models.LocationCandidate{candidate}, q.candidates...)
}

// Items returns the remaining candidates in order, front first.
func (q *CandidateQueue) Items() []models.LocationCandidate {
	return q.candidates
}
