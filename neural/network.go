package neural

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"gonum.org/v1/gonum/mat"
)

const (
	// InputDim — размерность входа вместе с bias-юнитом (D)
	InputDim = 2
	// OutputDim — количество выходных юнитов (K)
	OutputDim = 1
	// DefaultHiddenUnits — число скрытых юнитов вместе с bias-юнитом (M)
	DefaultHiddenUnits = 4
	// DefaultLearningRate — постоянный коэффициент обучения по умолчанию
	DefaultLearningRate = 0.1
)

// ErrInvalidArgument возвращается при некорректных гиперпараметрах
var ErrInvalidArgument = errors.New("invalid argument")

// LearningRate возвращает коэффициент обучения для номера итерации
type LearningRate func(iteration int64) float64

// WeightInit возвращает начальное значение одного веса
type WeightInit func() float64

// Input возвращает выход i-го входного юнита
type Input func(i int) float64

// Sample представляет один обучающий пример
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Network представляет двухслойный перцептрон для регрессии
type Network struct {
	mu sync.RWMutex

	hiddenUnits int
	wJI         *mat.Dense // M x D: вход -> скрытый слой
	wKJ         *mat.Dense // K x M: скрытый слой -> выход

	eta        LearningRate
	iterCounts *atomic.Int64
}

// ConstantRate возвращает расписание с постоянным коэффициентом обучения
func ConstantRate(eta float64) LearningRate {
	return func(int64) float64 {
		return eta
	}
}

// UniformInit возвращает инициализатор с равномерным распределением в [0, 1)
func UniformInit(rng *rand.Rand) WeightInit {
	return rng.Float64
}

// ConstantInit возвращает инициализатор, всегда выдающий одно значение
func ConstantInit(v float64) WeightInit {
	return func() float64 {
		return v
	}
}

// NewNetwork создает и инициализирует новую сеть
func NewNetwork(opts ...Option) (*Network, error) {
	n := &Network{
		hiddenUnits: DefaultHiddenUnits,
		iterCounts:  atomic.NewInt64(0),
	}
	if err := n.Init(opts...); err != nil {
		return nil, err
	}
	return n, nil
}

// Init сбрасывает счетчик итераций и заново выделяет матрицы весов.
// Если число скрытых юнитов не указано, сохраняется предыдущее значение.
func (n *Network) Init(opts ...Option) error {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.err != nil {
		return s.err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if s.hiddenUnits != 0 {
		n.hiddenUnits = s.hiddenUnits
	}
	n.eta = s.eta
	if n.eta == nil {
		n.eta = ConstantRate(DefaultLearningRate)
	}
	weightInit := s.weightInit
	if weightInit == nil {
		weightInit = rand.Float64
	}

	n.iterCounts.Store(0)
	n.wJI = newWeights(n.hiddenUnits, InputDim, weightInit)
	n.wKJ = newWeights(OutputDim, n.hiddenUnits, weightInit)
	return nil
}

func newWeights(rows, cols int, f WeightInit) *mat.Dense {
	w := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w.Set(r, c, f())
		}
	}
	return w
}

// Phi создает входной слой: 0-й юнит — bias, 1-й — x
func Phi(x float64) Input {
	units := [InputDim]float64{1, x}
	return func(i int) float64 {
		return units[i]
	}
}

// HiddenUnit вычисляет выход j-го скрытого юнита
func (n *Network) HiddenUnit(x Input, j int) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.hiddenUnit(x, j)
}

func (n *Network) hiddenUnit(x Input, j int) float64 {
	if j == 0 {
		// Bias-юнит скрытого слоя
		return 1
	}
	a := 0.0
	for i := 0; i < InputDim; i++ {
		a += n.wJI.At(j, i) * x(i)
	}
	return Tanh(a)
}

// Z возвращает выходы всех скрытых юнитов
func (n *Network) Z(x Input) []float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.z(x)
}

func (n *Network) z(x Input) []float64 {
	hidden := make([]float64, n.hiddenUnits)
	for j := range hidden {
		hidden[j] = n.hiddenUnit(x, j)
	}
	return hidden
}

// OutputFromInput вычисляет k-й выход, пересчитывая скрытый слой
func (n *Network) OutputFromInput(x Input, k int) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.outputFromInput(x, k)
}

func (n *Network) outputFromInput(x Input, k int) float64 {
	ak := 0.0
	for j := 0; j < n.hiddenUnits; j++ {
		ak += n.wKJ.At(k, j) * n.hiddenUnit(x, j)
	}
	// Линейная выходная функция
	return ak
}

// OutputFromHidden вычисляет k-й выход по готовым выходам скрытого слоя
func (n *Network) OutputFromHidden(z []float64, k int) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.outputFromHidden(z, k)
}

func (n *Network) outputFromHidden(z []float64, k int) float64 {
	ak := 0.0
	for j := 0; j < n.hiddenUnits; j++ {
		ak += n.wKJ.At(k, j) * z[j]
	}
	return ak
}

// Y возвращает выходы всех выходных юнитов
func (n *Network) Y(z []float64) []float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	outputs := make([]float64, OutputDim)
	for k := range outputs {
		outputs[k] = n.outputFromHidden(z, k)
	}
	return outputs
}

// Forward возвращает выходы скрытого и выходного слоев,
// вычисленные по одному и тому же набору весов
func (n *Network) Forward(x Input) (z, y []float64) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	z = n.z(x)
	y = make([]float64, OutputDim)
	for k := range y {
		y[k] = n.outputFromHidden(z, k)
	}
	return z, y
}

// Predict выполняет прямое распространение для скаляра x
func (n *Network) Predict(x float64) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.outputFromInput(Phi(x), 0)
}

// Train обучает сеть на одном примере
func (n *Network) Train(x, target float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.iterCounts.Inc()
	n.backPropagate(Phi(x), []float64{target})
}

// backPropagate выполняет один шаг обратного распространения.
// Все градиенты считаются по старым весам, замена происходит в конце.
func (n *Network) backPropagate(x Input, target []float64) {
	eta := n.eta(n.iterCounts.Load())
	m := n.hiddenUnits

	z := make([]float64, m)
	z[0] = 1
	for j := 1; j < m; j++ {
		z[j] = n.hiddenUnit(x, j)
	}

	deltaK := make([]float64, OutputDim)
	for k := range deltaK {
		deltaK[k] = n.outputFromHidden(z, k) - target[k]
	}

	// Скрытый слой -> выход
	wKJNew := mat.NewDense(OutputDim, m, nil)
	for k := 0; k < OutputDim; k++ {
		for j := 0; j < m; j++ {
			diff := eta * deltaK[k] * z[j]
			wKJNew.Set(k, j, n.wKJ.At(k, j)-diff)
		}
	}

	// Вход -> скрытый слой. Строка 0 тоже пересчитывается, хотя bias-юнит
	// ее не читает.
	wJINew := mat.NewDense(m, InputDim, nil)
	for j := 0; j < m; j++ {
		deltaJPart := 0.0
		for k := 0; k < OutputDim; k++ {
			deltaJPart += n.wKJ.At(k, j) * deltaK[k]
		}
		deltaJ := deltaJPart * (1 - z[j]*z[j])
		for i := 0; i < InputDim; i++ {
			diff := eta * x(i) * deltaJ
			wJINew.Set(j, i, n.wJI.At(j, i)-diff)
		}
	}

	n.wKJ = wKJNew
	n.wJI = wJINew
}

// TrainCount возвращает количество обновлений весов
func (n *Network) TrainCount() int64 {
	return n.iterCounts.Load()
}

// HiddenUnits возвращает M
func (n *Network) HiddenUnits() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.hiddenUnits
}

// Dims возвращает размерности сети (D, M, K)
func (n *Network) Dims() (d, m, k int) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return InputDim, n.hiddenUnits, OutputDim
}

// WeightsJI возвращает копию матрицы весов вход -> скрытый слой
func (n *Network) WeightsJI() *mat.Dense {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return mat.DenseCopyOf(n.wJI)
}

// WeightsKJ возвращает копию матрицы весов скрытый слой -> выход
func (n *Network) WeightsKJ() *mat.Dense {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return mat.DenseCopyOf(n.wKJ)
}

// Validate проверяет, что все веса конечны
func (n *Network) Validate() error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for name, w := range map[string]*mat.Dense{"w_ji": n.wJI, "w_kj": n.wKJ} {
		rows, cols := w.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := w.At(r, c)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return errors.Errorf("%s[%d][%d] is not finite: %v", name, r, c, v)
				}
			}
		}
	}
	return nil
}

// Tanh вычисляет гиперболический тангенс с защитой от переполнения exp
func Tanh(a float64) float64 {
	expA := math.Exp(a)
	expMA := math.Exp(-a)

	h := (expA - expMA) / (expA + expMA)
	finite := !math.IsNaN(h) && !math.IsInf(h, 0)

	switch {
	case !finite && a > 0:
		return 1
	case !finite && a < 0:
		return -1
	case h >= 1:
		return 1
	case h <= -1:
		return -1
	}
	return h
}
