package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/events"
	"github.com/cindermoor/cindermoor/internal/world"
)

// DeathSystem sweeps for entities whose Health reached zero, announces
// them, and queues their removal for the end-of-tick flush. It also ages
// out Defending, so a guard raised this turn lapses after the blows it
// was raised against.
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem { return &DeathSystem{} }

func (s *DeathSystem) Name() string { return "death" }

func (s *DeathSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Reads[component.Health](),
		ecs.Reads[component.Name](),
		ecs.Reads[component.Player](),
		ecs.Writes[component.Defending](),
		ecs.WritesResource[world.RunState](),
		ecs.WritesResource[world.MessageLog](),
		ecs.Emits[events.EntityDied](),
	)
}

func (s *DeathSystem) Update(ctx *ecs.Context) error {
	rs, err := ecs.ResMutOf[world.RunState](ctx)
	if err != nil {
		return err
	}
	log, err := ecs.ResMutOf[world.MessageLog](ctx)
	if err != nil {
		return err
	}
	healths, err := ecs.ViewOf[component.Health](ctx)
	if err != nil {
		return err
	}
	names, err := ecs.ViewOf[component.Name](ctx)
	if err != nil {
		return err
	}
	players, err := ecs.ViewOf[component.Player](ctx)
	if err != nil {
		return err
	}

	var dying []ecs.EntityID
	err = healths.Each(func(id ecs.EntityID, h component.Health) {
		if h.HP <= 0 {
			dying = append(dying, id)
		}
	})
	if err != nil {
		return err
	}

	for _, id := range dying {
		if err := ecs.PushEvent(ctx, events.EntityDied{
			Entity: id,
			Name:   nameOf(names, id),
			Depth:  rs.Depth,
		}); err != nil {
			return err
		}
		ctx.Defer(id)

		if players.Has(id) {
			// Seizing the Ember and dying on the same turn still counts
			// as a win; the grab came first.
			if rs.Status != world.StatusWon {
				rs.Status = world.StatusDead
			}
			log.Add("You fall. The moor keeps its ember.")
			continue
		}
		log.Addf("The %s dies.", nameOf(names, id))
	}

	return s.ageDefending(ctx)
}

func (s *DeathSystem) ageDefending(ctx *ecs.Context) error {
	defending, err := ecs.MutOf[component.Defending](ctx)
	if err != nil {
		return err
	}
	var expired []ecs.EntityID
	err = defending.Each(func(id ecs.EntityID, d *component.Defending) {
		d.Turns--
		if d.Turns <= 0 {
			expired = append(expired, id)
		}
	})
	if err != nil {
		return err
	}
	for _, id := range expired {
		defending.Remove(id)
	}
	return nil
}
