package system

import (
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/events"
	"github.com/cindermoor/cindermoor/internal/world"
)

// Scoring constants. DescendBonus is applied by the host when a new floor
// is entered; the rest are tallied here.
const (
	killBase       = 10
	killDepthBonus = 5
	emberBonus     = 500
	DescendBonus   = 50
)

// ScoreSystem drains the previous turn's combat events into the run
// tallies. The one-phase delay is inherent to the event queue: damage
// dealt on turn N scores on turn N+1.
type ScoreSystem struct{}

func NewScoreSystem() *ScoreSystem { return &ScoreSystem{} }

func (s *ScoreSystem) Name() string { return "score" }

func (s *ScoreSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Drains[events.DamageDealt](),
		ecs.Drains[events.EntityDied](),
		ecs.ReadsResource[world.PlayerRef](),
		ecs.WritesResource[world.RunState](),
	)
}

func (s *ScoreSystem) Update(ctx *ecs.Context) error {
	ref, err := ecs.ResOf[world.PlayerRef](ctx)
	if err != nil {
		return err
	}
	rs, err := ecs.ResMutOf[world.RunState](ctx)
	if err != nil {
		return err
	}

	dealt, err := ecs.DrainEvents[events.DamageDealt](ctx)
	if err != nil {
		return err
	}
	for _, ev := range dealt {
		if ev.Attacker == ref.Entity {
			rs.Score += ev.Amount
		}
	}

	died, err := ecs.DrainEvents[events.EntityDied](ctx)
	if err != nil {
		return err
	}
	for _, ev := range died {
		if ev.Entity == ref.Entity {
			continue
		}
		rs.Kills++
		rs.Score += killBase + killDepthBonus*ev.Depth
	}
	return nil
}
