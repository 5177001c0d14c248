package resolver

import "github.com/nulifyer/modget/internal/spec"

// Plan is the resolver's output: a deduplicated set of required specs,
// each carrying a download URI. Membership is by structural equality on
// (Name, Guid, Min, Max) per the data model's definition of plan
// membership — not the containment equality Spec.Equals implements.
type Plan struct {
	byKey map[planKey]spec.Spec
}

type planKey struct {
	name string
	guid string
	min  string
	max  string
}

func keyFor(s spec.Spec) planKey {
	return planKey{name: s.Name, guid: s.Guid.String(), min: s.Min.String(), max: s.Max.String()}
}

func newPlan() *Plan {
	return &Plan{byKey: make(map[planKey]spec.Spec)}
}

// Add inserts r into the plan, returning false if an entry with the same
// (Name, Guid, Min, Max) tuple is already present.
func (p *Plan) Add(r spec.Spec) bool {
	k := keyFor(r)
	if _, exists := p.byKey[k]; exists {
		return false
	}
	p.byKey[k] = r
	return true
}

// Resolved returns every member of the plan whose Name matches name,
// used by the dependency admission filter (§4.5.2).
func (p *Plan) Resolved(name string) []spec.Spec {
	var out []spec.Spec
	for _, s := range p.byKey {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// All returns every member of the plan, in no particular order.
func (p *Plan) All() []spec.Spec {
	out := make([]spec.Spec, 0, len(p.byKey))
	for _, s := range p.byKey {
		out = append(out, s)
	}
	return out
}

func (p *Plan) Len() int { return len(p.byKey) }
