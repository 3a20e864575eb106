package field_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/fieldgen/internal/field"
)

// staticMesh is periodic for x < edge with a constant shift.
type staticMesh struct {
	shift float64
	edge  float64
}

func (m staticMesh) PeriodicShift(x float64) (float64, bool) {
	if x >= m.edge {
		return 0, false
	}
	return m.shift, true
}

func coord(axis field.Axis) field.Generator { return field.NewCoordinate(axis) }

func TestBallooningSingleCopy(t *testing.T) {
	sin, _ := field.LookupUnary("sin")
	arg := bind(t, field.NewUnary("sin", sin), coord(field.AxisY))
	b := bind(t, field.NewBallooning(staticMesh{shift: 0.7, edge: 1}, 0), arg)

	for _, ctx := range []field.Context{
		field.At(0.1, 0.3, 0.2, 0),
		field.At(0.5, 2.0, 1.0, 3),
		field.At(0.9, -1.5, 4.0, 1),
	} {
		assert.Equal(t, arg.Generate(ctx), b.Generate(ctx))
	}
}

func TestBallooningSum(t *testing.T) {
	const shift = 0.25
	plus, _ := field.NewOperator("+")
	// f = y + z, so each copy contributes y + 2πk + z - k*shift.
	arg := bind(t, plus, coord(field.AxisY), coord(field.AxisZ))
	b := bind(t, field.NewBallooning(staticMesh{shift: shift, edge: 1}, 3), arg)

	ctx := field.At(0.5, 1, 2, 0)
	// The ±k terms cancel pairwise, leaving 7 copies of y + z.
	assert.InDelta(t, 7*3.0, b.Generate(ctx), 1e-12)
}

func TestBallooningShiftsCoordinates(t *testing.T) {
	const shift = 0.5
	var seen []field.Context
	rec := &recorder{Generator: constant(0), seen: &seen}
	b := bind(t, field.NewBallooning(staticMesh{shift: shift, edge: 1}, 2), rec)

	b.Generate(field.At(0.2, 1, 1, 0))
	require.Len(t, seen, 5)
	for i, ctx := range seen {
		k := float64(i - 2)
		assert.InDelta(t, 1+2*math.Pi*k, ctx.Y, 1e-12)
		assert.InDelta(t, 1-k*shift, ctx.Z, 1e-12)
		assert.Equal(t, 0.2, ctx.X)
	}
}

func TestBallooningOpenSurface(t *testing.T) {
	b := bind(t, field.NewBallooning(staticMesh{shift: 1, edge: 0.5}, 3), constant(1))
	assert.Equal(t, 7.0, b.Generate(field.At(0.4, 0, 0, 0)))
	assert.Equal(t, 0.0, b.Generate(field.At(0.6, 0, 0, 0)))
}

func TestBallooningMeshFromContext(t *testing.T) {
	b := bind(t, field.NewBallooning(nil, 1), constant(2))
	assert.True(t, math.IsNaN(b.Generate(field.At(0, 0, 0, 0))))

	ctx := field.At(0, 0, 0, 0).WithMesh(staticMesh{edge: 1})
	assert.Equal(t, 6.0, b.Generate(ctx))
}

func TestBallooningKeepsPrototypeParameters(t *testing.T) {
	proto := field.NewBallooning(staticMesh{edge: 1}, 4)
	g := bind(t, proto, constant(1))
	assert.Equal(t, 9.0, g.Generate(field.Context{}))
	assert.Equal(t, "ballooning(1)", g.String())
	assert.Equal(t, 4, proto.Terms())

	assert.Equal(t, 0, field.NewBallooning(nil, -2).Terms())
}

func TestMixmodeDeterministic(t *testing.T) {
	x := coord(field.AxisX)
	a := bind(t, field.NewMixmode(0.5), x)
	b := bind(t, field.NewMixmode(0.5), x)

	for i := 0; i < 20; i++ {
		ctx := field.At(float64(i)*0.37, 0, 0, 0)
		assert.Equal(t, a.Generate(ctx), b.Generate(ctx))
		assert.Equal(t, a.Generate(ctx), a.Generate(ctx))
	}
}

func TestMixmodeSeedsDiffer(t *testing.T) {
	x := coord(field.AxisX)
	a := bind(t, field.NewMixmode(0.5), x).(*field.Mixmode)
	b := bind(t, field.NewMixmode(1.7), x).(*field.Mixmode)
	assert.NotEqual(t, a.Phases(), b.Phases())

	differ := false
	for i := 0; i < 10; i++ {
		ctx := field.At(float64(i)*0.5, 0, 0, 0)
		if a.Generate(ctx) != b.Generate(ctx) {
			differ = true
		}
	}
	assert.True(t, differ)
}

func TestMixmodeBounded(t *testing.T) {
	m := bind(t, field.NewMixmode(field.DefaultMixmodeSeed), coord(field.AxisY)).(*field.Mixmode)
	for _, p := range m.Phases() {
		assert.Greater(t, p, -math.Pi)
		assert.Less(t, p, math.Pi)
	}
	for i := 0; i < 100; i++ {
		v := m.Generate(field.At(0, float64(i)*0.0628, 0, 0))
		assert.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestMixmodeUniformArgument(t *testing.T) {
	// With arg = 0 every mode contributes cos(phase).
	m := bind(t, field.NewMixmode(0.25), constant(0)).(*field.Mixmode)
	var want float64
	for _, p := range m.Phases() {
		want += math.Cos(p)
	}
	assert.InDelta(t, want/field.MixmodeModes, m.Generate(field.Context{}), 1e-15)
	assert.Equal(t, 0.25, m.Seed())
}

// recorder returns 0 and records each context it is evaluated at.
// The embedded Generator supplies the rest of the sealed method set.
type recorder struct {
	field.Generator
	seen *[]field.Context
}

func (r *recorder) Generate(ctx field.Context) float64 {
	*r.seen = append(*r.seen, ctx)
	return 0
}
