package neural

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TestNewNetwork проверяет создание новой сети
func TestNewNetwork(t *testing.T) {
	network, err := NewNetwork(WithHiddenUnits(4))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	rows, cols := network.WeightsJI().Dims()
	if rows != 4 || cols != 2 {
		t.Errorf("Expected w_ji to be 4x2, got %dx%d", rows, cols)
	}

	rows, cols = network.WeightsKJ().Dims()
	if rows != 1 || cols != 4 {
		t.Errorf("Expected w_kj to be 1x4, got %dx%d", rows, cols)
	}

	if network.TrainCount() != 0 {
		t.Errorf("Expected TrainCount to be 0, got %d", network.TrainCount())
	}

	d, m, k := network.Dims()
	if d != InputDim || m != 4 || k != OutputDim {
		t.Errorf("Unexpected dims (%d, %d, %d)", d, m, k)
	}
}

// TestNewNetworkDefaults проверяет значения по умолчанию
func TestNewNetworkDefaults(t *testing.T) {
	network, err := NewNetwork()
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}
	if network.HiddenUnits() != DefaultHiddenUnits {
		t.Errorf("Expected %d hidden units, got %d", DefaultHiddenUnits, network.HiddenUnits())
	}

	// Веса по умолчанию берутся из [0, 1)
	w := network.WeightsJI()
	rows, cols := w.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := w.At(r, c); v < 0 || v >= 1 {
				t.Errorf("w_ji[%d][%d] = %f out of [0, 1)", r, c, v)
			}
		}
	}
}

// TestNewNetworkInvalidHiddenUnits проверяет отказ при M < 1
func TestNewNetworkInvalidHiddenUnits(t *testing.T) {
	for _, m := range []int{0, -3} {
		_, err := NewNetwork(WithHiddenUnits(m))
		if err == nil {
			t.Fatalf("expected error for %d hidden units", m)
		}
		if errors.Cause(err) != ErrInvalidArgument {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	}
}

// TestInitKeepsHiddenUnits проверяет повторную инициализацию
func TestInitKeepsHiddenUnits(t *testing.T) {
	network, err := NewNetwork(WithHiddenUnits(6))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}
	network.Train(0.5, 0.5)
	network.Train(0.1, 0.2)

	if err := network.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if network.HiddenUnits() != 6 {
		t.Errorf("Expected hidden units to stay 6, got %d", network.HiddenUnits())
	}
	if network.TrainCount() != 0 {
		t.Errorf("Expected counter reset, got %d", network.TrainCount())
	}

	if err := network.Init(WithHiddenUnits(0)); err == nil {
		t.Error("expected Init to reject 0 hidden units")
	}
	if network.HiddenUnits() != 6 {
		t.Errorf("failed Init must not change the network, got M=%d", network.HiddenUnits())
	}
}

// TestTanh проверяет функцию активации tanh
func TestTanh(t *testing.T) {
	testCases := []struct {
		input    float64
		expected float64
	}{
		{input: 0, expected: 0},
		{input: 1000, expected: 1},
		{input: -1000, expected: -1},
		{input: 710, expected: 1},
		{input: -710, expected: -1},
		{input: 25, expected: 1},
	}

	for _, tc := range testCases {
		result := Tanh(tc.input)
		if result != tc.expected {
			t.Errorf("Tanh(%f) = %f, expected %f", tc.input, result, tc.expected)
		}
	}

	for _, x := range []float64{0.1, 0.5, 1, 2.5, 7, 19, 300} {
		if Tanh(-x) != -Tanh(x) {
			t.Errorf("Tanh is not odd at %f: %v vs %v", x, Tanh(-x), -Tanh(x))
		}
		if math.Abs(Tanh(x)-math.Tanh(x)) > 1e-12 {
			t.Errorf("Tanh(%f) = %v, math.Tanh = %v", x, Tanh(x), math.Tanh(x))
		}
	}
}

// TestPhi проверяет входной слой
func TestPhi(t *testing.T) {
	x := Phi(3.5)
	if x(0) != 1 {
		t.Errorf("bias input must be 1, got %f", x(0))
	}
	if x(1) != 3.5 {
		t.Errorf("expected x(1) = 3.5, got %f", x(1))
	}
}

// TestForward проверяет прямое распространение
func TestForward(t *testing.T) {
	network, err := NewNetwork(WithHiddenUnits(3), WithWeightInit(ConstantInit(0.5)))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	x := Phi(2)
	z := network.Z(x)
	if len(z) != 3 {
		t.Fatalf("Expected 3 hidden outputs, got %d", len(z))
	}
	if z[0] != 1 {
		t.Errorf("bias hidden unit must output 1, got %f", z[0])
	}
	// a = 0.5*1 + 0.5*2
	if want := Tanh(1.5); z[1] != want || z[2] != want {
		t.Errorf("Expected hidden outputs %f, got %v", want, z)
	}

	y := network.Y(z)
	if len(y) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(y))
	}
	want := 0.5 + 0.5*z[1] + 0.5*z[2]
	if math.Abs(y[0]-want) > 1e-15 {
		t.Errorf("Expected y = %f, got %f", want, y[0])
	}
	if got := network.OutputFromInput(x, 0); got != y[0] {
		t.Errorf("OutputFromInput = %f, OutputFromHidden = %f", got, y[0])
	}
	if got := network.Predict(2); got != y[0] {
		t.Errorf("Predict = %f, expected %f", got, y[0])
	}
}

func TestForwardMatchesLayers(t *testing.T) {
	network, err := NewNetwork(WithWeightInit(UniformInit(rand.New(rand.NewSource(8)))))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	for _, x := range []float64{-1, -0.3, 0, 0.7, 2} {
		z, y := network.Forward(Phi(x))
		wantZ := network.Z(Phi(x))
		if len(z) != len(wantZ) {
			t.Fatalf("Forward returned %d hidden outputs, Z returned %d", len(z), len(wantZ))
		}
		for j := range z {
			if z[j] != wantZ[j] {
				t.Errorf("x=%f: hidden %d = %f, Z = %f", x, j, z[j], wantZ[j])
			}
		}
		if len(y) != 1 || y[0] != network.Predict(x) {
			t.Errorf("x=%f: Forward y = %v, Predict = %f", x, y, network.Predict(x))
		}
	}
}

// TestForwardDuringTraining запускается под -race: Forward и Train
// работают с весами параллельно
func TestForwardDuringTraining(t *testing.T) {
	network, err := NewNetwork(WithWeightInit(UniformInit(rand.New(rand.NewSource(9)))))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			network.Train(float64(i%7)/7, 0.5)
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		z, y := network.Forward(Phi(0.25))
		if len(z) != DefaultHiddenUnits || len(y) != OutputDim || math.IsNaN(y[0]) {
			t.Fatalf("inconsistent forward pass z=%v y=%v", z, y)
		}
	}
}

// TestTrainCount проверяет счетчик итераций
func TestTrainCount(t *testing.T) {
	network, err := NewNetwork()
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}
	for i := 1; i <= 5; i++ {
		network.Train(float64(i)/5, 0)
		if network.TrainCount() != int64(i) {
			t.Errorf("Expected TrainCount %d, got %d", i, network.TrainCount())
		}
	}
}

// TestLearningRateReceivesCount проверяет аргумент расписания
func TestLearningRateReceivesCount(t *testing.T) {
	var calls []int64
	eta := func(i int64) float64 {
		calls = append(calls, i)
		return 0.1
	}
	network, err := NewNetwork(WithLearningRate(eta))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}
	network.Train(0.1, 0.1)
	network.Train(0.2, 0.2)
	network.Train(0.3, 0.3)

	if len(calls) != 3 || calls[0] != 1 || calls[1] != 2 || calls[2] != 3 {
		t.Errorf("Expected schedule calls [1 2 3], got %v", calls)
	}
}

// TestSingleHiddenUnit проверяет вырожденный случай M = 1
func TestSingleHiddenUnit(t *testing.T) {
	network, err := NewNetwork(WithHiddenUnits(1), WithLearningRate(ConstantRate(0.1)))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	old := network.WeightsKJ().At(0, 0)
	for _, x := range []float64{-3, 0, 5, 100} {
		if got := network.Predict(x); got != old {
			t.Errorf("Predict(%f) = %f, expected %f", x, got, old)
		}
	}

	network.Train(5, 3)
	want := old - 0.1*(old-3)
	if got := network.WeightsKJ().At(0, 0); got != want {
		t.Errorf("Expected w_kj[0][0] = %v, got %v", want, got)
	}
}

// TestBackPropagation сверяет шаг обучения с ручным расчетом по старым весам
func TestBackPropagation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	network, err := NewNetwork(
		WithHiddenUnits(3),
		WithLearningRate(ConstantRate(0.2)),
		WithWeightInit(UniformInit(rng)),
	)
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	wJI := network.WeightsJI()
	wKJ := network.WeightsKJ()
	x, target := 0.7, -0.4
	in := []float64{1, x}

	z := []float64{1, 0, 0}
	for j := 1; j < 3; j++ {
		z[j] = math.Tanh(wJI.At(j, 0)*in[0] + wJI.At(j, 1)*in[1])
	}
	y := wKJ.At(0, 0)*z[0] + wKJ.At(0, 1)*z[1] + wKJ.At(0, 2)*z[2]
	delta := y - target

	network.Train(x, target)
	newJI := network.WeightsJI()
	newKJ := network.WeightsKJ()

	for j := 0; j < 3; j++ {
		want := wKJ.At(0, j) - 0.2*delta*z[j]
		if math.Abs(newKJ.At(0, j)-want) > 1e-12 {
			t.Errorf("w_kj[0][%d] = %v, expected %v", j, newKJ.At(0, j), want)
		}
		deltaJ := wKJ.At(0, j) * delta * (1 - z[j]*z[j])
		for i := 0; i < 2; i++ {
			want := wJI.At(j, i) - 0.2*in[i]*deltaJ
			if math.Abs(newJI.At(j, i)-want) > 1e-12 {
				t.Errorf("w_ji[%d][%d] = %v, expected %v", j, i, newJI.At(j, i), want)
			}
		}
	}

	// Строка bias-юнита тоже обновляется, хотя дельта там нулевая
	if newJI.At(0, 0) != wJI.At(0, 0) {
		t.Errorf("bias row changed with zero tanh derivative: %v -> %v", wJI.At(0, 0), newJI.At(0, 0))
	}
}

// TestDeterminism проверяет воспроизводимость обучения
func TestDeterminism(t *testing.T) {
	run := func() *Network {
		network, err := NewNetwork(WithHiddenUnits(5), WithWeightInit(ConstantInit(0.5)))
		if err != nil {
			t.Fatalf("NewNetwork() failed: %v", err)
		}
		for epoch := 0; epoch < 20; epoch++ {
			for i := 0; i < 10; i++ {
				x := float64(i)/5 - 1
				network.Train(x, x*x)
			}
		}
		return network
	}

	a, b := run(), run()
	if !mat.Equal(a.WeightsJI(), b.WeightsJI()) {
		t.Error("w_ji differs between identical runs")
	}
	if !mat.Equal(a.WeightsKJ(), b.WeightsKJ()) {
		t.Error("w_kj differs between identical runs")
	}
}

// TestSumOfError проверяет функцию ошибки
func TestSumOfError(t *testing.T) {
	network, err := NewNetwork(WithWeightInit(ConstantInit(0.25)))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	if got := network.SumOfError(nil); got != 0 {
		t.Errorf("SumOfError(nil) = %f, expected 0", got)
	}
	if got := network.SumOfError([]Sample{}); got != 0 {
		t.Errorf("SumOfError([]) = %f, expected 0", got)
	}

	set := []Sample{{X: -1, Y: 2}, {X: 0, Y: -1}, {X: 1, Y: 0.5}}
	sum := network.SumOfError(set)
	if sum < 0 {
		t.Errorf("SumOfError must be non-negative, got %f", sum)
	}

	manual := 0.0
	for _, s := range set {
		manual += network.Error(Phi(s.X), []float64{s.Y})
	}
	if math.Abs(sum-manual) > 1e-12 {
		t.Errorf("SumOfError = %f, expected %f", sum, manual)
	}

	if got := network.AverageError(set, 1); got != 0 {
		t.Errorf("AverageError before training = %f, expected 0", got)
	}
}

// TestLearningTrend проверяет, что средняя ошибка убывает при обучении f(x) = x
func TestLearningTrend(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	network, err := NewNetwork(
		WithHiddenUnits(4),
		WithLearningRate(ConstantRate(0.05)),
		WithWeightInit(UniformInit(rng)),
	)
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}

	set := make([]Sample, 50)
	for i := range set {
		x := float64(i)*2/49 - 1
		set[i] = Sample{X: x, Y: x}
	}

	var errs []float64
	for epoch := 0; epoch < 1000; epoch++ {
		for _, s := range set {
			network.Train(s.X, s.Y)
			if network.TrainCount()%50 == 0 {
				errs = append(errs, network.AverageError(set, 1))
			}
		}
	}

	if len(errs) != 1000 {
		t.Fatalf("Expected 1000 error points, got %d", len(errs))
	}
	if errs[len(errs)-1] >= errs[0] {
		t.Errorf("error did not decrease: first=%f last=%f", errs[0], errs[len(errs)-1])
	}
	if err := network.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

// TestValidate проверяет обнаружение неконечных весов
func TestValidate(t *testing.T) {
	network, err := NewNetwork(WithWeightInit(ConstantInit(math.NaN())))
	if err != nil {
		t.Fatalf("NewNetwork() failed: %v", err)
	}
	if err := network.Validate(); err == nil {
		t.Error("expected Validate to report NaN weights")
	}

	// NaN распространяется, обучение не падает
	network.Train(1, 1)
	if !math.IsNaN(network.Predict(1)) {
		t.Error("expected NaN output to propagate")
	}
}
