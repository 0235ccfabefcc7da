package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/events"
	"github.com/cindermoor/cindermoor/internal/scripting"
	"github.com/cindermoor/cindermoor/internal/world"
)

// CombatSystem resolves every AttackIntent through the melee script, in
// ascending entity order. Damage lands on Health directly; kills are left
// for the death pass. All AttackIntents are consumed.
type CombatSystem struct {
	lua *scripting.Engine
}

func NewCombatSystem(lua *scripting.Engine) *CombatSystem {
	return &CombatSystem{lua: lua}
}

func (s *CombatSystem) Name() string { return "combat" }

func (s *CombatSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Writes[component.AttackIntent](),
		ecs.Writes[component.Health](),
		ecs.Reads[component.Position](),
		ecs.Reads[component.Name](),
		ecs.Reads[component.Melee](),
		ecs.Reads[component.Defending](),
		ecs.Reads[component.Player](),
		ecs.WritesResource[world.Rng](),
		ecs.WritesResource[world.RunState](),
		ecs.WritesResource[world.MessageLog](),
		ecs.Emits[events.DamageDealt](),
	)
}

func (s *CombatSystem) Update(ctx *ecs.Context) error {
	rng, err := ecs.ResOf[world.Rng](ctx)
	if err != nil {
		return err
	}
	rs, err := ecs.ResMutOf[world.RunState](ctx)
	if err != nil {
		return err
	}
	log, err := ecs.ResMutOf[world.MessageLog](ctx)
	if err != nil {
		return err
	}
	attacks, err := ecs.MutOf[component.AttackIntent](ctx)
	if err != nil {
		return err
	}
	healths, err := ecs.MutOf[component.Health](ctx)
	if err != nil {
		return err
	}
	positions, err := ecs.ViewOf[component.Position](ctx)
	if err != nil {
		return err
	}
	names, err := ecs.ViewOf[component.Name](ctx)
	if err != nil {
		return err
	}
	melees, err := ecs.ViewOf[component.Melee](ctx)
	if err != nil {
		return err
	}
	defending, err := ecs.ViewOf[component.Defending](ctx)
	if err != nil {
		return err
	}
	players, err := ecs.ViewOf[component.Player](ctx)
	if err != nil {
		return err
	}

	type swing struct {
		attacker ecs.EntityID
		target   ecs.EntityID
	}
	pending := make([]swing, 0, attacks.Len())
	err = attacks.Each(func(id ecs.EntityID, a *component.AttackIntent) {
		pending = append(pending, swing{attacker: id, target: a.Target})
	})
	if err != nil {
		return err
	}

	for _, sw := range pending {
		attacks.Remove(sw.attacker)

		hp, ok := healths.Get(sw.target)
		if !ok || hp.HP <= 0 {
			continue
		}
		apos, ok := positions.Get(sw.attacker)
		if !ok {
			continue
		}
		tpos, ok := positions.Get(sw.target)
		if !ok || chebyshev(apos.X, apos.Y, tpos.X, tpos.Y) != 1 {
			continue
		}
		weapon, ok := melees.Get(sw.attacker)
		if !ok {
			continue
		}

		// Both rolls are drawn before the script runs so the roll stream
		// is identical under script overrides.
		hitRoll := rng.R.Intn(20) + 1
		dmgRoll := rng.R.Intn(3)

		res := s.lua.Melee(scripting.MeleeContext{
			AttackerDamage:  weapon.Damage,
			TargetDefending: defending.Has(sw.target),
			HitRoll:         hitRoll,
			DamageRoll:      dmgRoll,
		})

		attackerIsPlayer := players.Has(sw.attacker)
		attackerName := nameOf(names, sw.attacker)
		targetName := nameOf(names, sw.target)

		if !res.Hit {
			if attackerIsPlayer {
				log.Addf("You miss the %s.", targetName)
			} else {
				log.Addf("The %s misses you.", attackerName)
			}
			continue
		}

		hp.HP -= res.Damage
		switch {
		case attackerIsPlayer && res.Crit:
			log.Addf("You crush the %s for %d!", targetName, res.Damage)
		case attackerIsPlayer:
			log.Addf("You hit the %s for %d.", targetName, res.Damage)
		case res.Crit:
			log.Addf("The %s savages you for %d!", attackerName, res.Damage)
		default:
			log.Addf("The %s hits you for %d.", attackerName, res.Damage)
		}

		if players.Has(sw.target) {
			rs.DiedTo = attackerName
		}

		if err := ecs.PushEvent(ctx, events.DamageDealt{
			Attacker: sw.attacker,
			Target:   sw.target,
			Amount:   res.Damage,
		}); err != nil {
			return err
		}
	}
	return nil
}

func nameOf(names ecs.View[component.Name], id ecs.EntityID) string {
	if n, ok := names.Get(id); ok {
		return n.Value
	}
	return "something"
}
