package solver

import "github.com/me/rosterd/pkg/model"

// acceptor decides whether local search may take a candidate move. Acceptors
// are stateful per run and not safe for concurrent use; each Solve owns one.
type acceptor interface {
	accept(mv move, candidate, bestEver model.Score) bool
	stepTaken(mv move, score model.Score)
}

func (s *Solver) newAcceptor(alg Algorithm, initial model.Score) acceptor {
	switch alg {
	case AlgorithmTabuSearch:
		return &tabuAcceptor{
			tenure:  s.cfg.TabuSize,
			current: initial,
		}
	case AlgorithmLateAcceptance:
		history := make([]model.Score, s.cfg.LateAcceptanceSize)
		for i := range history {
			history[i] = initial
		}
		return &lateAcceptanceAcceptor{history: history, current: initial}
	default:
		return &hillClimbingAcceptor{current: initial}
	}
}

// hillClimbingAcceptor takes any move that does not worsen the current score.
type hillClimbingAcceptor struct {
	current model.Score
}

func (a *hillClimbingAcceptor) accept(_ move, candidate, _ model.Score) bool {
	return candidate.Cmp(a.current) >= 0
}

func (a *hillClimbingAcceptor) stepTaken(_ move, score model.Score) {
	a.current = score
}

// tabuAcceptor forbids revisiting recently moved shifts for a fixed tenure,
// with the usual aspiration escape for moves beating the best-ever score.
type tabuAcceptor struct {
	tenure  int
	recent  []int // shift indexes, oldest first
	current model.Score
}

func (a *tabuAcceptor) accept(mv move, candidate, bestEver model.Score) bool {
	if a.isTabu(mv.shiftIdx) && candidate.Cmp(bestEver) <= 0 {
		return false
	}
	// Tabu search escapes local optima by taking the best non-tabu move even
	// when it worsens the score.
	return true
}

func (a *tabuAcceptor) stepTaken(mv move, score model.Score) {
	a.current = score
	a.recent = append(a.recent, mv.shiftIdx)
	if len(a.recent) > a.tenure {
		a.recent = a.recent[1:]
	}
}

func (a *tabuAcceptor) isTabu(shiftIdx int) bool {
	for _, idx := range a.recent {
		if idx == shiftIdx {
			return true
		}
	}
	return false
}

// lateAcceptanceAcceptor compares candidates against the score from a fixed
// number of steps ago instead of the current one, tolerating temporary
// worsening.
type lateAcceptanceAcceptor struct {
	history []model.Score
	pos     int
	current model.Score
}

func (a *lateAcceptanceAcceptor) accept(_ move, candidate, _ model.Score) bool {
	return candidate.Cmp(a.history[a.pos]) >= 0 || candidate.Cmp(a.current) >= 0
}

func (a *lateAcceptanceAcceptor) stepTaken(_ move, score model.Score) {
	a.current = score
	a.history[a.pos] = score
	a.pos = (a.pos + 1) % len(a.history)
}
