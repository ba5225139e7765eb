package ui

import (
	"encoding/json"
	"math"
	"strconv"

	"tlp/neural"
	"tlp/stats"
	"tlp/trainer"
)

// Number — число, которое кодируется в JSON как null, если оно не конечно.
// После расходящегося обучения веса и ошибка могут быть NaN или Inf.
type Number float64

// MarshalJSON реализует json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON читает null как NaN
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Point — точка графика
type Point struct {
	X Number `json:"x"`
	Y Number `json:"y"`
}

// Curves — выход сети и скрытых юнитов на сетке
type Curves struct {
	X      []Number   `json:"x"`
	Y      []Number   `json:"y"`
	Hidden [][]Number `json:"hidden"`
}

func numbers(v []float64) []Number {
	out := make([]Number, len(v))
	for i, f := range v {
		out[i] = Number(f)
	}
	return out
}

func samplePoints(samples []neural.Sample) []Point {
	out := make([]Point, len(samples))
	for i, s := range samples {
		out[i] = Point{X: Number(s.X), Y: Number(s.Y)}
	}
	return out
}

func errorPoints(points []stats.ErrorPoint) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: Number(p.Count), Y: Number(p.AvgError)}
	}
	return out
}

func fitCurves(fit trainer.FitResult) Curves {
	c := Curves{
		X:      numbers(fit.X),
		Y:      numbers(fit.Y),
		Hidden: make([][]Number, len(fit.Hidden)),
	}
	for j, h := range fit.Hidden {
		c.Hidden[j] = numbers(h)
	}
	return c
}
