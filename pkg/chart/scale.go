package chart

import (
	"math"
	"strconv"
)

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear returns a linear scale from [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map projects v into the range. A zero-width domain maps everything to R0.
func (s LinearScale) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return s.R0
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Ticks returns roughly count evenly spaced round values inside the domain,
// stepping by 1, 2 or 5 times a power of ten.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := s.D0, s.D1
	if hi < lo {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}
	start := math.Ceil(lo/step) * step
	stop := math.Floor(hi/step)*step + step*0.5
	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		ticks = append(ticks, cleanZero(v))
	}
	return ticks
}

// TickFormat formats ticks with just enough decimals for the tick step.
func (s LinearScale) TickFormat(count int) func(float64) string {
	lo, hi := s.D0, s.D1
	if hi < lo {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	prec := 0
	if step > 0 && !math.IsInf(step, 0) {
		prec = int(math.Max(0, -math.Floor(math.Log10(step)+0.01)))
	}
	return func(v float64) string {
		return strconv.FormatFloat(cleanZero(v), 'f', prec, 64)
	}
}

func tickStep(lo, hi float64, count int) float64 {
	if count <= 0 {
		count = 10
	}
	span := hi - lo
	if span <= 0 {
		return 0
	}
	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	err := float64(count) / span * step
	switch {
	case err <= 0.15:
		step *= 10
	case err <= 0.35:
		step *= 5
	case err <= 0.75:
		step *= 2
	}
	return step
}

func cleanZero(v float64) float64 {
	// fold -0 and float noise like 0.30000000000000004 back to round values
	r := math.Round(v*1e12) / 1e12
	if r == 0 {
		return 0
	}
	return r
}

// BandScale maps distinct labels onto equal-width bands with integer
// positions, padding a fraction of each step between bands and at both ends.
type BandScale struct {
	domain    []string
	index     map[string]int
	positions []float64
	band      float64
}

// NewRoundBands builds a band scale over the distinct labels of domain
// (first occurrence order) spanning [r0, r1].
func NewRoundBands(domain []string, r0, r1, padding float64) BandScale {
	s := BandScale{index: make(map[string]int, len(domain))}
	for _, d := range domain {
		if _, ok := s.index[d]; ok {
			continue
		}
		s.index[d] = len(s.domain)
		s.domain = append(s.domain, d)
	}

	reverse := r1 < r0
	start, stop := r0, r1
	if reverse {
		start, stop = r1, r0
	}
	n := float64(len(s.domain))
	outer := padding
	step := math.Floor((stop - start) / (n - padding + 2*outer))
	errPx := stop - start - (n-padding)*step
	first := start + math.Round(errPx/2)

	s.positions = make([]float64, len(s.domain))
	for i := range s.domain {
		s.positions[i] = first + float64(i)*step
	}
	if reverse {
		for i, j := 0, len(s.positions)-1; i < j; i, j = i+1, j-1 {
			s.positions[i], s.positions[j] = s.positions[j], s.positions[i]
		}
	}
	s.band = math.Round(step * (1 - padding))
	return s
}

// Map returns the left edge of label's band, or NaN for unknown labels.
func (s BandScale) Map(label string) float64 {
	i, ok := s.index[label]
	if !ok {
		return math.NaN()
	}
	return s.positions[i]
}

// Bandwidth returns the width of each band.
func (s BandScale) Bandwidth() float64 {
	return s.band
}

// Domain returns the distinct labels in band order.
func (s BandScale) Domain() []string {
	return append([]string(nil), s.domain...)
}
