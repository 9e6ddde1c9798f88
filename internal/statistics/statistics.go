// Package statistics aggregates results of simulated blackjack rounds.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult is the outcome of one resolved round
type RoundResult struct {
	Outcome string // game outcome label, e.g. "blackjack"
	Bet     int
	Net     int // credit minus bet
	Cards   int // cards the player finished with
}

// Statistics tracks results across many rounds
type Statistics struct {
	Rounds   int
	SumNet   float64
	SumNet2  float64   // sum of squares for variance
	Values   []float64 // per-round net, for median and percentiles
	Wagered  int
	Cards    int // player cards summed over all rounds
	Outcomes map[string]int

	Sessions     int
	Bankruptcies int
	MaxBalance   int
}

// New returns empty statistics
func New() *Statistics {
	return &Statistics{Outcomes: make(map[string]int)}
}

// Add incorporates a round result
func (s *Statistics) Add(r RoundResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	net := float64(r.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += r.Bet
	s.Cards += r.Cards
	s.Outcomes[r.Outcome]++
}

// AddSession records the end of a session
func (s *Statistics) AddSession(finalBalance int, bankrupt bool) {
	s.Sessions++
	if bankrupt {
		s.Bankruptcies++
	}
	if finalBalance > s.MaxBalance {
		s.MaxBalance = finalBalance
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Cards += other.Cards
	for k, v := range other.Outcomes {
		s.Outcomes[k] += v
	}
	s.Sessions += other.Sessions
	s.Bankruptcies += other.Bankruptcies
	if other.MaxBalance > s.MaxBalance {
		s.MaxBalance = other.MaxBalance
	}
}

// Mean returns the average net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of per-round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge returns the player's loss as a fraction of the total wagered
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -s.SumNet / float64(s.Wagered)
}

// AvgCards returns the mean number of cards in the player's final hand
func (s *Statistics) AvgCards() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Cards) / float64(s.Rounds)
}

// Rate returns how often an outcome occurred
func (s *Statistics) Rate(outcome string) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Outcomes[outcome]) / float64(s.Rounds)
}

// Median returns the median per-round result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds (%d)", total, s.Rounds)
	}
	if s.Bankruptcies > s.Sessions {
		return fmt.Errorf("bankruptcies (%d) exceed sessions (%d)", s.Bankruptcies, s.Sessions)
	}
	return nil
}
