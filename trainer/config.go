package trainer

import (
	"time"

	"github.com/pkg/errors"

	"tlp/dataset"
	"tlp/neural"
)

// Config описывает параметры одного запуска обучения
type Config struct {
	Target        string  `json:"target"`
	HiddenUnits   int     `json:"hiddenUnits"`
	LearningRate  float64 `json:"learningRate"`
	Schedule      string  `json:"schedule"`
	Samples       int     `json:"samples"`
	Epochs        int     `json:"epochs"`
	Random        bool    `json:"random"`
	RandomSamples int     `json:"randomSamples"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Period        int     `json:"period"`
	Seed          int64   `json:"seed"`
}

// Значения по умолчанию, как в исходной форме демо
const (
	DefaultSamples       = 50
	DefaultEpochs        = 1000
	DefaultRandomSamples = 5000
	DefaultRandomPeriod  = 128
)

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Target:        dataset.DefaultTarget,
		HiddenUnits:   neural.DefaultHiddenUnits,
		LearningRate:  neural.DefaultLearningRate,
		Schedule:      ScheduleConstant,
		Samples:       DefaultSamples,
		Epochs:        DefaultEpochs,
		RandomSamples: DefaultRandomSamples,
		Min:           -1,
		Max:           1,
	}
}

// Validate проверяет конфигурацию и заполняет пропущенные значения
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Target == "" {
		c.Target = dataset.DefaultTarget
	}
	if _, err := dataset.Lookup(c.Target); err != nil {
		return err
	}
	if c.Schedule == "" {
		c.Schedule = ScheduleConstant
	}
	if _, ok := schedules[c.Schedule]; !ok {
		return errors.Wrapf(neural.ErrInvalidArgument, "unknown schedule %q", c.Schedule)
	}
	if c.HiddenUnits == 0 {
		c.HiddenUnits = neural.DefaultHiddenUnits
	}
	if c.HiddenUnits < 1 {
		return errors.Wrapf(neural.ErrInvalidArgument, "hidden units must be >= 1 (got %d)", c.HiddenUnits)
	}
	if c.LearningRate == 0 {
		c.LearningRate = neural.DefaultLearningRate
	}
	if c.Min == 0 && c.Max == 0 {
		c.Min, c.Max = -1, 1
	}
	if c.Min >= c.Max {
		return errors.Wrapf(neural.ErrInvalidArgument, "min must be < max (got %f, %f)", c.Min, c.Max)
	}
	if c.Random {
		if c.RandomSamples <= 0 {
			c.RandomSamples = DefaultRandomSamples
		}
		if c.Period <= 0 {
			c.Period = DefaultRandomPeriod
		}
	} else {
		if c.Samples <= 0 {
			c.Samples = DefaultSamples
		}
		if c.Epochs <= 0 {
			c.Epochs = DefaultEpochs
		}
		if c.Period <= 0 {
			c.Period = c.Samples
		}
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return nil
}
