package impairment

import (
	"testing"

	"github.com/WIZARDISHUNGRY/visim/internal/cvd"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for _, k := range All() {
		require.Equal(t, k, Parse(k.String()))
	}
	require.Equal(t, Glaucoma, Parse("  GLAUCOMA "))
}

func TestParseUnknown(t *testing.T) {
	for _, id := range []string{"", "unknown_string", "unknown", "protan"} {
		k := Parse(id)
		require.Equal(t, Unknown, k, id)
		require.Equal(t, Passthrough, k.Route())
	}
}

func TestSelectable(t *testing.T) {
	got := Selectable()
	require.Equal(t, []Kind{
		MacularDegeneration, Glaucoma, Cataracts, DiabeticRetinopathy,
		HighMyopia, Protanopia, Deuteranopia, Tritanopia,
	}, got)
	require.Len(t, All(), 11)
}

func TestRoutes(t *testing.T) {
	testCases := []struct {
		kind     Kind
		route    Route
		def      cvd.Deficiency
		severity float64
	}{
		{kind: MacularDegeneration, route: Passthrough},
		{kind: Glaucoma, route: Effect},
		{kind: Cataracts, route: Effect},
		{kind: DiabeticRetinopathy, route: Effect},
		{kind: HighMyopia, route: Effect},
		{kind: Protanopia, route: Dichromacy, def: cvd.Protan, severity: 1},
		{kind: Deuteranopia, route: Dichromacy, def: cvd.Deutan, severity: 1},
		{kind: Tritanopia, route: Dichromacy, def: cvd.Tritan, severity: 1},
		{kind: Protanomaly, route: Dichromacy, def: cvd.Protan, severity: 0.6},
		{kind: Deuteranomaly, route: Dichromacy, def: cvd.Deutan, severity: 0.6},
		{kind: Tritanomaly, route: Dichromacy, def: cvd.Tritan, severity: 0.6},
	}
	for _, tC := range testCases {
		t.Run(tC.kind.String(), func(t *testing.T) {
			require.Equal(t, tC.route, tC.kind.Route())
			d, severity, ok := tC.kind.Dichromacy()
			require.Equal(t, tC.route == Dichromacy, ok)
			if ok {
				require.Equal(t, tC.def, d)
				require.Equal(t, tC.severity, severity)
			}
		})
	}
}
