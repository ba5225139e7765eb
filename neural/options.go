package neural

import "github.com/pkg/errors"

// Option настраивает сеть при инициализации
type Option func(*settings)

type settings struct {
	hiddenUnits int
	eta         LearningRate
	weightInit  WeightInit
	err         error
}

// WithHiddenUnits задает число скрытых юнитов вместе с bias-юнитом
func WithHiddenUnits(m int) Option {
	return func(s *settings) {
		if m < 1 {
			s.err = errors.Wrapf(ErrInvalidArgument, "hidden units must be >= 1 (got %d)", m)
			return
		}
		s.hiddenUnits = m
	}
}

// WithLearningRate задает расписание коэффициента обучения
func WithLearningRate(eta LearningRate) Option {
	return func(s *settings) {
		s.eta = eta
	}
}

// WithWeightInit задает функцию инициализации весов
func WithWeightInit(f WeightInit) Option {
	return func(s *settings) {
		s.weightInit = f
	}
}
