package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrorPoint представляет одно измерение средней ошибки
type ErrorPoint struct {
	Count    int64   `json:"x"`
	AvgError float64 `json:"y"`
}

// Series хранит историю ошибки во время обучения
type Series struct {
	Points []ErrorPoint `json:"points"`
	mu     sync.Mutex
}

// NewSeries создает пустую историю
func NewSeries() *Series {
	return &Series{
		Points: []ErrorPoint{},
	}
}

// Add добавляет измерение
func (s *Series) Add(p ErrorPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Points = append(s.Points, p)
}

// Reset очищает историю
func (s *Series) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Points = []ErrorPoint{}
}

// GetPoints возвращает копию всех измерений
func (s *Series) GetPoints() []ErrorPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorPoint(nil), s.Points...)
}

// Len возвращает количество измерений
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Points)
}

// Last возвращает последнее измерение
func (s *Series) Last() (ErrorPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Points) == 0 {
		return ErrorPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

func (s *Series) values() []float64 {
	v := make([]float64, len(s.Points))
	for i, p := range s.Points {
		v[i] = p.AvgError
	}
	return v
}

// Min возвращает минимальную среднюю ошибку
func (s *Series) Min() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Points) == 0 {
		return 0
	}
	return floats.Min(s.values())
}

// Mean возвращает среднее по всем измерениям
func (s *Series) Mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Points) == 0 {
		return 0
	}
	return floats.Sum(s.values()) / float64(len(s.Points))
}

// Trend сравнивает среднюю ошибку второй половины истории с первой.
// Отрицательное значение означает, что ошибка убывает.
func (s *Series) Trend() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Points) < 2 {
		return 0
	}
	v := s.values()
	half := len(v) / 2
	first := floats.Sum(v[:half]) / float64(half)
	second := floats.Sum(v[half:]) / float64(len(v)-half)
	return second - first
}

// Save сохраняет историю в JSON-файл
func (s *Series) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create stats directory")
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create stats file")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// Load загружает историю из JSON-файла
func (s *Series) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open stats file")
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	return decoder.Decode(s)
}
