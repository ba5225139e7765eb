package dataset

import (
	"math/rand"
	"sort"

	"tlp/neural"
)

// Series возвращает n равноотстоящих точек от min до max включительно
func Series(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = (float64(i) * (max - min) / float64(n-1)) + min
	}
	return xs
}

// Sequential генерирует обучающие данные в равноотстоящих точках
func Sequential(f TargetFunc, n int, min, max float64) []neural.Sample {
	xs := Series(min, max, n)
	set := make([]neural.Sample, len(xs))
	for i, x := range xs {
		set[i] = neural.Sample{X: x, Y: f(x)}
	}
	return set
}

// Uniform возвращает случайную точку из [min, max)
func Uniform(rng *rand.Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

// Random генерирует n примеров в случайных точках из [min, max)
func Random(f TargetFunc, n int, min, max float64, rng *rand.Rand) []neural.Sample {
	if n <= 0 {
		return nil
	}
	set := make([]neural.Sample, n)
	for i := range set {
		x := Uniform(rng, min, max)
		set[i] = neural.Sample{X: x, Y: f(x)}
	}
	return set
}

// Sorted возвращает копию набора, упорядоченную по x
func Sorted(set []neural.Sample) []neural.Sample {
	out := append([]neural.Sample(nil), set...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X < out[j].X
	})
	return out
}
