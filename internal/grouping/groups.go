// Package grouping splits a roster into skill-balanced station groups and
// reshuffles them between rotations.
package grouping

import (
	"math/rand/v2"

	"github.com/diamondplans/diamondplans/internal/models"
)

// maxSwaps caps how many players change groups per adjacent pair per rotation.
const maxSwaps = 3

// Assigner draws all of its randomness from one injected source so a pinned
// seed reproduces the same groups.
type Assigner struct {
	rng *rand.Rand
}

// New returns an Assigner using rng. A nil rng gets a randomly seeded source.
func New(rng *rand.Rand) *Assigner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Assigner{rng: rng}
}

// NewSeeded returns an Assigner whose output is fully determined by seed.
func NewSeeded(seed uint64) *Assigner {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Split deals players into n groups whose sizes differ by at most one.
// Advanced players are dealt first so every group gets one while they last,
// then beginners continue the deal where the advanced players stopped.
func (a *Assigner) Split(players []models.Player, n int) [][]models.Player {
	if n <= 1 {
		return [][]models.Player{append([]models.Player(nil), players...)}
	}

	var advanced, beginner []models.Player
	for _, p := range players {
		if p.Skill == models.SkillAdvanced {
			advanced = append(advanced, p)
		} else {
			beginner = append(beginner, p)
		}
	}
	a.shuffle(advanced)
	a.shuffle(beginner)

	groups := make([][]models.Player, n)
	next := 0
	for _, p := range advanced {
		groups[next%n] = append(groups[next%n], p)
		next++
	}
	for _, p := range beginner {
		groups[next%n] = append(groups[next%n], p)
		next++
	}
	return groups
}

// Rotate returns a new grouping where each adjacent pair of groups has swapped
// up to three randomly chosen players. Group sizes and overall membership are
// unchanged; the input is not modified.
func (a *Assigner) Rotate(groups [][]models.Player) [][]models.Player {
	out := make([][]models.Player, len(groups))
	for i, g := range groups {
		out[i] = append([]models.Player(nil), g...)
	}
	if len(out) <= 1 {
		return out
	}

	swaps := min(maxSwaps, len(out[0])/2)
	if swaps == 0 {
		swaps = 1
	}
	for range swaps {
		for i := 0; i < len(out)-1; i++ {
			from, to := out[i], out[i+1]
			if len(from) == 0 || len(to) == 0 {
				continue
			}
			fi := a.rng.IntN(len(from))
			ti := a.rng.IntN(len(to))
			from[fi], to[ti] = to[ti], from[fi]
		}
	}
	return out
}

func (a *Assigner) shuffle(players []models.Player) {
	a.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}
