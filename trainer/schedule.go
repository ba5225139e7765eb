package trainer

import "tlp/neural"

// Расписания коэффициента обучения
const (
	ScheduleConstant = "constant"
	SchedulePegasos  = "pegasos"
	ScheduleDecay    = "decay"
)

var schedules = map[string]func(eta float64) neural.LearningRate{
	ScheduleConstant: neural.ConstantRate,
	// eta / i
	SchedulePegasos: func(eta float64) neural.LearningRate {
		return func(i int64) float64 {
			if i <= 0 {
				return eta
			}
			return eta / float64(i)
		}
	},
	// 100 / (1000 + i) + eta
	ScheduleDecay: func(eta float64) neural.LearningRate {
		return func(i int64) float64 {
			return 100/(1000+float64(i)) + eta
		}
	},
}

func scheduleFor(name string, eta float64) neural.LearningRate {
	build, ok := schedules[name]
	if !ok {
		build = neural.ConstantRate
	}
	return build(eta)
}
