package main

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// The visualization maps the sounding pitches into the coefficients of
// a closed parametric curve
//
//	r(u) = sum_i a_i * (sin(f_i*u + p_i), cos(g_i*u), sin(h_i*u))
//
// for u in [0, 2pi). Each sounding key contributes one term: the
// angular frequencies follow its pitch class and octave, the amplitude
// follows velocity and the envelope level, so the curve blooms on
// attack and withers as notes release. With nothing sounding the curve
// settles on a plain circle.

const (
	// CurvePoints is the polyline resolution.
	CurvePoints = 512
	// curveBlend is the per-frame exponential approach rate toward
	// the target shape, keeping transitions between chords smooth.
	curveBlend = 0.18
)

type curveTerm struct {
	amp   float64
	fx    float64
	fy    float64
	fz    float64
	phase float64
}

// curveTerms derives one term per sounding key.
func curveTerms(keys []SoundingKey) []curveTerm {
	if len(keys) == 0 {
		// Rest shape: a unit circle with a slight vertical wobble.
		return []curveTerm{{amp: 1, fx: 1, fy: 1, fz: 2}}
	}
	terms := make([]curveTerm, 0, len(keys))
	total := 0.0
	for _, k := range keys {
		pc := k.Key % 12
		oct := k.Key/12 - 1
		a := float64(k.Velocity) / 127.0 * k.Level
		if a <= 0 {
			continue
		}
		terms = append(terms, curveTerm{
			amp:   a,
			fx:    float64(1 + pc),
			fy:    float64(1 + (oct+2)%7),
			fz:    float64(2 + (pc+oct)%5),
			phase: float64(pc) * math.Pi / 6,
		})
		total += a
	}
	if len(terms) == 0 {
		return []curveTerm{{amp: 1, fx: 1, fy: 1, fz: 2}}
	}
	// Normalize so the curve stays inside the unit sphere no matter
	// how many keys are down.
	for i := range terms {
		terms[i].amp /= total
	}
	return terms
}

func evalTerms(terms []curveTerm, out []mgl.Vec3) {
	n := len(out)
	for i := 0; i < n; i++ {
		u := 2 * math.Pi * float64(i) / float64(n-1)
		var x, y, z float64
		for _, t := range terms {
			x += t.amp * math.Sin(t.fx*u+t.phase)
			y += t.amp * math.Cos(t.fy*u)
			z += t.amp * math.Sin(t.fz*u)
		}
		out[i] = mgl.Vec3{float32(x), float32(y), float32(z)}
	}
}

// CurveState holds the smoothed polyline handed to the renderer.
type CurveState struct {
	points []mgl.Vec3
	target []mgl.Vec3
	primed bool
}

func NewCurveState() *CurveState {
	return &CurveState{
		points: make([]mgl.Vec3, CurvePoints),
		target: make([]mgl.Vec3, CurvePoints),
	}
}

// Advance recomputes the target shape from the sounding set and eases
// the displayed polyline toward it.
func (cs *CurveState) Advance(keys []SoundingKey) {
	evalTerms(curveTerms(keys), cs.target)
	if !cs.primed {
		copy(cs.points, cs.target)
		cs.primed = true
		return
	}
	blend := float32(curveBlend)
	for i := range cs.points {
		cs.points[i] = cs.points[i].Add(cs.target[i].Sub(cs.points[i]).Mul(blend))
	}
}

// Points returns the current polyline. The slice is reused between
// frames; callers must not retain it.
func (cs *CurveState) Points() []mgl.Vec3 {
	return cs.points
}
