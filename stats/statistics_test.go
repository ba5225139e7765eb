package stats

import (
	"math"
	"path/filepath"
	"testing"
)

// TestNewSeries проверяет создание пустой истории
func TestNewSeries(t *testing.T) {
	s := NewSeries()

	if s == nil {
		t.Fatal("NewSeries() returned nil")
	}
	if s.Points == nil {
		t.Error("Points slice should not be nil")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last() should report no points")
	}
	if s.Min() != 0 || s.Mean() != 0 || s.Trend() != 0 {
		t.Error("empty series must report zero aggregates")
	}
}

// TestAdd проверяет добавление измерений
func TestAdd(t *testing.T) {
	s := NewSeries()
	s.Add(ErrorPoint{Count: 50, AvgError: 0.8})
	s.Add(ErrorPoint{Count: 100, AvgError: 0.4})

	if s.Len() != 2 {
		t.Fatalf("Expected 2 points, got %d", s.Len())
	}

	last, ok := s.Last()
	if !ok || last.Count != 100 || last.AvgError != 0.4 {
		t.Errorf("Unexpected last point %+v", last)
	}

	points := s.GetPoints()
	points[0].AvgError = 99
	if s.Points[0].AvgError != 0.8 {
		t.Error("GetPoints must return a copy")
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Expected empty series after Reset, got %d", s.Len())
	}
}

// TestAggregates проверяет Min, Mean и Trend
func TestAggregates(t *testing.T) {
	s := NewSeries()
	for i, v := range []float64{1.0, 0.8, 0.5, 0.3} {
		s.Add(ErrorPoint{Count: int64(i+1) * 10, AvgError: v})
	}

	if s.Min() != 0.3 {
		t.Errorf("Expected Min 0.3, got %f", s.Min())
	}
	if math.Abs(s.Mean()-0.65) > 1e-12 {
		t.Errorf("Expected Mean 0.65, got %f", s.Mean())
	}
	if trend := s.Trend(); math.Abs(trend-(-0.5)) > 1e-12 {
		t.Errorf("Expected Trend -0.5, got %f", trend)
	}
}

// TestSaveLoad проверяет сохранение и загрузку истории
func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", "errors.json")

	s := NewSeries()
	s.Add(ErrorPoint{Count: 50, AvgError: 0.12345})
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded := NewSeries()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("Expected 1 point, got %d", loaded.Len())
	}
	if math.Abs(loaded.Points[0].AvgError-0.12345) > 0.00001 {
		t.Errorf("Expected AvgError 0.12345, got %f", loaded.Points[0].AvgError)
	}

	if err := NewSeries().Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
