package dataset

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownTarget возвращается для незарегистрированной целевой функции
var ErrUnknownTarget = errors.New("unknown target function")

// TargetFunc — целевая функция регрессии
type TargetFunc func(x float64) float64

// DefaultTarget — целевая функция по умолчанию
const DefaultTarget = "sin"

var targets = map[string]TargetFunc{
	"sin": func(x float64) float64 {
		return math.Sin(math.Pi * x)
	},
	"x2": func(x float64) float64 {
		return x * x
	},
	"abs":       math.Abs,
	"heaviside": Heaviside,
	"identity": func(x float64) float64 {
		return x
	},
}

var descriptions = map[string]string{
	"sin":       "sin(pi * x)",
	"x2":        "x * x",
	"abs":       "|x|",
	"heaviside": "heaviside(x)",
	"identity":  "x",
}

// Heaviside возвращает 0 для x < 0 и 1 иначе
func Heaviside(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1
}

// Lookup возвращает целевую функцию по имени
func Lookup(name string) (TargetFunc, error) {
	f, ok := targets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTarget, "%q", name)
	}
	return f, nil
}

// Describe возвращает формулу целевой функции
func Describe(name string) string {
	return descriptions[name]
}

// Names возвращает отсортированный список зарегистрированных функций
func Names() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
