package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"tlp/database"
	"tlp/dataset"
	"tlp/neural"
	"tlp/stats"
)

// Trainer управляет процессом обучения сети на целевой функции
type Trainer struct {
	cfg     Config
	network *neural.Network
	target  dataset.TargetFunc
	rng     *rand.Rand
	errors  *stats.Series
	db      *database.Database
	runID   *atomic.Int64

	mu       sync.Mutex
	observed []neural.Sample
}

// FitResult содержит выход сети и скрытых юнитов на равномерной сетке
type FitResult struct {
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`
	Hidden [][]float64 `json:"hidden"`
}

// NewTrainer создает новый менеджер обучения. db может быть nil.
func NewTrainer(cfg Config, db *database.Database) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	target, err := dataset.Lookup(cfg.Target)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	network, err := neural.NewNetwork(
		neural.WithHiddenUnits(cfg.HiddenUnits),
		neural.WithLearningRate(scheduleFor(cfg.Schedule, cfg.LearningRate)),
		neural.WithWeightInit(neural.UniformInit(rng)),
	)
	if err != nil {
		return nil, err
	}

	return &Trainer{
		cfg:     cfg,
		network: network,
		target:  target,
		rng:     rng,
		errors:  stats.NewSeries(),
		db:      db,
		runID:   atomic.NewInt64(0),
	}, nil
}

// Config возвращает конфигурацию с заполненными значениями по умолчанию
func (t *Trainer) Config() Config {
	return t.cfg
}

// Network возвращает обучаемую сеть
func (t *Trainer) Network() *neural.Network {
	return t.network
}

// Errors возвращает историю средней ошибки
func (t *Trainer) Errors() *stats.Series {
	return t.errors
}

// RunID возвращает идентификатор запуска в базе данных (0 без базы)
func (t *Trainer) RunID() int64 {
	return t.runID.Load()
}

// Observed возвращает копию всех предъявленных сети примеров
func (t *Trainer) Observed() []neural.Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]neural.Sample(nil), t.observed...)
}

func (t *Trainer) observe(samples ...neural.Sample) {
	t.mu.Lock()
	t.observed = append(t.observed, samples...)
	t.mu.Unlock()
}

// Run запускает обучение согласно конфигурации.
// Прерванный запуск тоже завершается в базе с фактическим числом итераций.
func (t *Trainer) Run(ctx context.Context, verbose bool) (err error) {
	startTime := time.Now()

	if t.db != nil {
		runID, err := t.db.StartRun(database.RunRecord{
			Target:       t.cfg.Target,
			HiddenUnits:  t.cfg.HiddenUnits,
			LearningRate: t.cfg.LearningRate,
			Samples:      t.cfg.Samples,
			Epochs:       t.cfg.Epochs,
			Random:       t.cfg.Random,
		})
		if err != nil {
			return err
		}
		t.runID.Store(runID)
		defer func() {
			if finishErr := t.db.FinishRun(runID, t.lastError(), t.network.TrainCount()); finishErr != nil && err == nil {
				err = finishErr
			}
		}()
	}

	if verbose {
		fmt.Printf("\n=== Обучение: %s, M=%d, eta=%g (%s) ===\n",
			dataset.Describe(t.cfg.Target), t.cfg.HiddenUnits, t.cfg.LearningRate, t.cfg.Schedule)
	}

	if t.cfg.Random {
		err = t.TrainRandom(ctx, t.cfg.RandomSamples, t.cfg.Period)
	} else {
		set := dataset.Sequential(t.target, t.cfg.Samples, t.cfg.Min, t.cfg.Max)
		err = t.TrainSequential(ctx, set, t.cfg.Epochs, t.cfg.Period, verbose)
	}
	if err != nil {
		return err
	}

	if err := t.network.Validate(); err != nil && verbose {
		fmt.Printf("Предупреждение: %v\n", err)
	}

	if verbose {
		fmt.Printf("=== Обучение завершено: итераций %d, ошибка %.6f, время %s ===\n",
			t.network.TrainCount(), t.lastError(), time.Since(startTime).Round(time.Millisecond))
	}
	return nil
}

func (t *Trainer) lastError() float64 {
	if last, ok := t.errors.Last(); ok {
		return last.AvgError
	}
	return 0
}

// TrainSequential обучает сеть на наборе epochs раз подряд.
// Ошибка измеряется каждые period итераций.
func (t *Trainer) TrainSequential(ctx context.Context, set []neural.Sample, epochs, period int, verbose bool) error {
	if period <= 0 {
		return errors.Wrapf(neural.ErrInvalidArgument, "period must be > 0 (got %d)", period)
	}
	t.observe(set...)

	for epoch := 0; epoch < epochs; epoch++ {
		for _, s := range set {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.network.Train(s.X, s.Y)

			if t.network.TrainCount()%int64(period) == 0 {
				if err := t.recordError(float64(epoch + 1)); err != nil {
					return err
				}
			}
		}

		if verbose && (epoch+1)%100 == 0 {
			if last, ok := t.errors.Last(); ok {
				fmt.Printf("  Эпоха %d/%d, ошибка %.6f\n", epoch+1, epochs, last.AvgError)
			}
		}
	}
	return nil
}

// TrainRandom обучает сеть на n случайных точках из [Min, Max)
func (t *Trainer) TrainRandom(ctx context.Context, n, period int) error {
	if period <= 0 {
		return errors.Wrapf(neural.ErrInvalidArgument, "period must be > 0 (got %d)", period)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		x := dataset.Uniform(t.rng, t.cfg.Min, t.cfg.Max)
		y := t.target(x)
		t.observe(neural.Sample{X: x, Y: y})
		t.network.Train(x, y)

		if t.network.TrainCount()%int64(period) == 0 {
			if err := t.recordError(1); err != nil {
				return err
			}
		}
	}
	return nil
}

// TrainOne обучает сеть на одном произвольном примере
func (t *Trainer) TrainOne(x, y float64) {
	t.observe(neural.Sample{X: x, Y: y})
	t.network.Train(x, y)
}

func (t *Trainer) recordError(scale float64) error {
	p := stats.ErrorPoint{
		Count:    t.network.TrainCount(),
		AvgError: t.network.AverageError(t.Observed(), scale),
	}
	t.errors.Add(p)

	runID := t.runID.Load()
	if t.db == nil || runID == 0 {
		return nil
	}
	return t.db.RecordErrorPoint(database.ErrorPointRecord{
		RunID:      runID,
		TrainCount: p.Count,
		AvgError:   p.AvgError,
	})
}

// Fit вычисляет выход сети и скрытых юнитов в steps точках
// на отрезке, покрывающем предъявленные примеры
func (t *Trainer) Fit(steps int) FitResult {
	sorted := dataset.Sorted(t.Observed())
	min, max := t.cfg.Min, t.cfg.Max
	if len(sorted) > 0 {
		min, max = sorted[0].X, sorted[len(sorted)-1].X
	}

	xs := dataset.Series(min, max, steps)
	res := FitResult{
		X:      xs,
		Y:      make([]float64, len(xs)),
		Hidden: make([][]float64, t.network.HiddenUnits()),
	}
	for j := range res.Hidden {
		res.Hidden[j] = make([]float64, len(xs))
	}

	for n, x := range xs {
		z, y := t.network.Forward(neural.Phi(x))
		res.Y[n] = y[0]
		for j := range z {
			if j < len(res.Hidden) {
				res.Hidden[j][n] = z[j]
			}
		}
	}
	return res
}
