package entity

import "github.com/oomph-ac/motionsim/simulation"

// Effects maps the active effects of an entity to their remaining duration and amplifier.
type Effects map[simulation.EffectKind]simulation.EffectInstance

func (e Effects) Effect(kind simulation.EffectKind) (simulation.EffectInstance, bool) {
	inst, ok := e[kind]
	return inst, ok
}

// Attributes holds the attributes of an entity that differ from the defaults.
type Attributes map[simulation.Attribute]float64

func (a Attributes) Attribute(attr simulation.Attribute) float64 {
	if v, ok := a[attr]; ok {
		return v
	}
	return simulation.DefaultAttribute(attr)
}

// AddEffect adds an effect to the entity, replacing any effect of the same kind.
func (e *Entity) AddEffect(kind simulation.EffectKind, inst simulation.EffectInstance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.effects[kind] = inst
}

// RemoveEffect removes the effect of the kind passed.
func (e *Entity) RemoveEffect(kind simulation.EffectKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.effects, kind)
}

// SetAttribute overrides the value of an attribute.
func (e *Entity) SetAttribute(attr simulation.Attribute, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attributes[attr] = v
}

// TickEffects counts down the duration of every effect and removes the ones that ran out.
func (e *Entity) TickEffects() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for kind, inst := range e.effects {
		inst.Duration--
		if inst.Duration <= 0 {
			delete(e.effects, kind)
			continue
		}
		e.effects[kind] = inst
	}
}
