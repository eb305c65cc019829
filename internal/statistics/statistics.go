// Package statistics aggregates the outcomes of simulated games.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// GameResult is the outcome of one simulated game
type GameResult struct {
	Seed       int64    // RNG seed for this game (for replay)
	Strategies []string // strategy per seat
	Totals     []int    // final total per seat
	Winners    []int    // winning seats; several on a shared victory
	Rounds     int      // rounds played
	Busts      int      // player-rounds that ended busted or frozen
	Sevens     int      // rounds ended by seven distinct numbers
}

// SeatStats tracks results for one seat or strategy
type SeatStats struct {
	Games    int
	Wins     float64 // shared wins count fractionally
	SumTotal int
}

// WinShare returns the fraction of games won
func (s SeatStats) WinShare() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.Wins / float64(s.Games)
}

// MeanTotal returns the mean final total
func (s SeatStats) MeanTotal() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumTotal) / float64(s.Games)
}

// Statistics tracks simulation statistics. Rounds per game is the primary
// sample for mean, variance and confidence intervals.
type Statistics struct {
	Games      int
	SumRounds  float64
	SumRounds2 float64   // Sum of squares for variance calculation
	Rounds     []float64 // Every sample for median/percentile calculation

	WinningTotals []int
	PlayerRounds  int // player-rounds played, the denominator of BustRate
	Busts         int
	Sevens        int
	SharedWins    int

	Seats      []SeatStats
	Strategies map[string]*SeatStats
}

// Add incorporates a game result
func (s *Statistics) Add(r GameResult) {
	rounds := float64(r.Rounds)
	s.Games++
	s.SumRounds += rounds
	s.SumRounds2 += rounds * rounds
	s.Rounds = append(s.Rounds, rounds)

	s.PlayerRounds += r.Rounds * len(r.Totals)
	s.Busts += r.Busts
	s.Sevens += r.Sevens
	if len(r.Winners) > 1 {
		s.SharedWins++
	}
	if len(r.Winners) > 0 {
		s.WinningTotals = append(s.WinningTotals, r.Totals[r.Winners[0]])
	}

	for len(s.Seats) < len(r.Totals) {
		s.Seats = append(s.Seats, SeatStats{})
	}
	if s.Strategies == nil {
		s.Strategies = make(map[string]*SeatStats)
	}

	share := 0.0
	if len(r.Winners) > 0 {
		share = 1 / float64(len(r.Winners))
	}
	for seat, total := range r.Totals {
		won := slices.Contains(r.Winners, seat)

		s.Seats[seat].Games++
		s.Seats[seat].SumTotal += total
		if won {
			s.Seats[seat].Wins += share
		}

		if seat < len(r.Strategies) {
			st := s.Strategies[r.Strategies[seat]]
			if st == nil {
				st = &SeatStats{}
				s.Strategies[r.Strategies[seat]] = st
			}
			st.Games++
			st.SumTotal += total
			if won {
				st.Wins += share
			}
		}
	}
}

// Mean returns the mean number of rounds per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumRounds / float64(s.Games)
}

// Variance returns the sample variance of rounds per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumRounds2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median rounds per game
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns rounds per game at percentile p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Rounds) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Rounds)
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

// MeanWinningTotal returns the mean total of the winner
func (s *Statistics) MeanWinningTotal() float64 {
	if len(s.WinningTotals) == 0 {
		return 0
	}
	sum := 0
	for _, t := range s.WinningTotals {
		sum += t
	}
	return float64(sum) / float64(len(s.WinningTotals))
}

// BustRate returns the fraction of player-rounds that scored nothing
// because of a bust or freeze
func (s *Statistics) BustRate() float64 {
	if s.PlayerRounds == 0 {
		return 0
	}
	return float64(s.Busts) / float64(s.PlayerRounds)
}

// SevenRate returns the fraction of rounds ended by seven distinct numbers
func (s *Statistics) SevenRate() float64 {
	if s.SumRounds == 0 {
		return 0
	}
	return float64(s.Sevens) / s.SumRounds
}

// StrategyNames returns the strategies seen, sorted
func (s *Statistics) StrategyNames() []string {
	names := make([]string, 0, len(s.Strategies))
	for name := range s.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate performs consistency checks
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Rounds) != s.Games {
		return fmt.Errorf("rounds array length (%d) does not match games count (%d)", len(s.Rounds), s.Games)
	}

	wins := 0.0
	for _, seat := range s.Seats {
		wins += seat.Wins
	}
	if math.Abs(wins-float64(len(s.WinningTotals))) > 1e-6 {
		return fmt.Errorf("seat wins (%.3f) do not match decided games (%d)", wins, len(s.WinningTotals))
	}
	if s.Busts > s.PlayerRounds {
		return fmt.Errorf("busts (%d) exceed player-rounds (%d)", s.Busts, s.PlayerRounds)
	}
	if float64(s.Sevens) > s.SumRounds {
		return fmt.Errorf("sevens (%d) exceed rounds (%.0f)", s.Sevens, s.SumRounds)
	}
	return nil
}
