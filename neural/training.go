package neural

// TrainBatch обучает сеть на наборе примеров по одному, по порядку
func (n *Network) TrainBatch(samples []Sample) {
	for _, s := range samples {
		n.Train(s.X, s.Y)
	}
}

// Error возвращает сумму квадратов ошибок для одного примера
func (n *Network) Error(x Input, target []float64) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sampleError(x, target)
}

func (n *Network) sampleError(x Input, target []float64) float64 {
	sum := 0.0
	for k := 0; k < OutputDim; k++ {
		err := n.outputFromInput(x, k) - target[k]
		sum += err * err
	}
	return sum
}

// SumOfError возвращает сумму ошибок по всему набору данных
func (n *Network) SumOfError(trainingSet []Sample) float64 {
	if len(trainingSet) == 0 {
		return 0
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	sum := 0.0
	target := make([]float64, OutputDim)
	for _, s := range trainingSet {
		target[0] = s.Y
		sum += n.sampleError(Phi(s.X), target)
	}
	return sum
}

// AverageError возвращает SumOfError, деленную на число итераций обучения
func (n *Network) AverageError(trainingSet []Sample, scale float64) float64 {
	count := n.TrainCount()
	if count == 0 {
		return 0
	}
	return n.SumOfError(trainingSet) * scale / float64(count)
}
