package impairment

import (
	"strings"

	"github.com/WIZARDISHUNGRY/visim/internal/cvd"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind is one of the simulated conditions. Unknown is never selectable and
// always resolves to a passthrough.
type Kind int

const (
	Unknown Kind = iota
	MacularDegeneration
	Glaucoma
	Cataracts
	DiabeticRetinopathy
	HighMyopia
	Protanopia
	Deuteranopia
	Tritanopia
	Protanomaly
	Deuteranomaly
	Tritanomaly
)

// Route is the pipeline path a Kind takes.
type Route int

const (
	Passthrough Route = iota
	Dichromacy
	Effect
)

type info struct {
	id, name   string
	route      Route
	selectable bool
	deficiency cvd.Deficiency
	severity   float64
}

var kinds = map[Kind]info{
	MacularDegeneration: {id: "macular_degeneration", name: "Macular Degeneration", route: Passthrough, selectable: true},
	Glaucoma:            {id: "glaucoma", name: "Glaucoma", route: Effect, selectable: true},
	Cataracts:           {id: "cataracts", name: "Cataracts", route: Effect, selectable: true},
	DiabeticRetinopathy: {id: "diabetic_retinopathy", name: "Diabetic Retinopathy", route: Effect, selectable: true},
	HighMyopia:          {id: "high_myopia", name: "High Myopia", route: Effect, selectable: true},
	Protanopia:          {id: "protanopia", name: "Protanopia", route: Dichromacy, selectable: true, deficiency: cvd.Protan, severity: cvd.FullSeverity},
	Deuteranopia:        {id: "deuteranopia", name: "Deuteranopia", route: Dichromacy, selectable: true, deficiency: cvd.Deutan, severity: cvd.FullSeverity},
	Tritanopia:          {id: "tritanopia", name: "Tritanopia", route: Dichromacy, selectable: true, deficiency: cvd.Tritan, severity: cvd.FullSeverity},
	Protanomaly:         {id: "protanomaly", name: "Protanomaly", route: Dichromacy, deficiency: cvd.Protan, severity: cvd.AnomalousSeverity},
	Deuteranomaly:       {id: "deuteranomaly", name: "Deuteranomaly", route: Dichromacy, deficiency: cvd.Deutan, severity: cvd.AnomalousSeverity},
	Tritanomaly:         {id: "tritanomaly", name: "Tritanomaly", route: Dichromacy, deficiency: cvd.Tritan, severity: cvd.AnomalousSeverity},
}

var byID = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds))
	for k, i := range kinds {
		m[i.id] = k
	}
	return m
}()

// Parse resolves an identifier such as "diabetic_retinopathy". Anything it
// does not recognize becomes Unknown rather than an error.
func Parse(id string) Kind {
	id = strings.ToLower(strings.TrimSpace(id))
	return byID[id]
}

// String returns the identifier, or "unknown".
func (k Kind) String() string {
	if i, ok := kinds[k]; ok {
		return i.id
	}
	return "unknown"
}

// Name is the human readable name.
func (k Kind) Name() string {
	if i, ok := kinds[k]; ok {
		return i.name
	}
	return "Unknown"
}

func (k Kind) Route() Route {
	return kinds[k].route
}

// Dichromacy returns the simulator parameters for color vision kinds.
func (k Kind) Dichromacy() (d cvd.Deficiency, severity float64, ok bool) {
	i, ok := kinds[k]
	if !ok || i.route != Dichromacy {
		return 0, 0, false
	}
	return i.deficiency, i.severity, true
}

// Selectable lists the eight conditions offered to users, in display order.
// The anomalous variants are reachable only by identifier.
func Selectable() []Kind {
	all := maps.Keys(kinds)
	out := all[:0]
	for _, k := range all {
		if kinds[k].selectable {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// All lists every known Kind, excluding Unknown.
func All() []Kind {
	all := maps.Keys(kinds)
	slices.Sort(all)
	return all
}
