package volumefader

import (
	"math"
	"testing"
)

// Тест шкалы: ноль обязан отображаться строго в ноль, а не в остаточный
// уровень -60 дБ, иначе оборудование не увидит тишину.
func TestLogScaleZeroExact(t *testing.T) {
	s := LogScale(DefaultScaleRangeDB)

	if got := s.Apply(0); got != 0 {
		t.Errorf("Apply(0) = %v; want exactly 0", got)
	}
	if got := s.Apply(-0.5); got != 0 {
		t.Errorf("Apply(-0.5) = %v; want exactly 0", got)
	}
	if got := s.Apply(1); got != 1 {
		t.Errorf("Apply(1) = %v; want 1", got)
	}
}

// Середина шкалы на 60 дБ: 10^((0.5-1)*60/20) = 10^-1.5.
func TestLogScaleHalf(t *testing.T) {
	s := LogScale(60)

	want := math.Pow(10, -1.5) // ≈ 0.0316
	if got := s.Apply(0.5); math.Abs(got-want) > 1e-15 {
		t.Errorf("Apply(0.5) = %v; want %v", got, want)
	}
}

// Шкала должна быть монотонной и не выходить за [0,1].
func TestLogScaleMonotonic(t *testing.T) {
	s := LogScale(DefaultScaleRangeDB)

	prev := -1.0
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		v := s.Apply(p)
		if v < 0 || v > 1 {
			t.Fatalf("Apply(%v) = %v out of [0,1]", p, v)
		}
		if v < prev {
			t.Fatalf("Apply(%v) = %v < Apply(previous) = %v", p, v, prev)
		}
		prev = v
	}
}

// Invert обязан быть обратным к Apply на всём диапазоне.
func TestLogScaleInvertRoundTrip(t *testing.T) {
	s := LogScale(DefaultScaleRangeDB)

	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		got := s.Invert(s.Apply(p))
		if math.Abs(got-p) > 1e-12 {
			t.Errorf("Invert(Apply(%v)) = %v; want %v", p, got, p)
		}
	}

	// Значения вне диапазона прижимаются к [0,1].
	if got := s.Invert(2); got != 1 {
		t.Errorf("Invert(2) = %v; want 1", got)
	}
	if got := s.Invert(-1); got != 0 {
		t.Errorf("Invert(-1) = %v; want 0", got)
	}
}

func TestLinearScaleIdentity(t *testing.T) {
	s := LinearScale()
	for _, p := range []float64{0, 0.3, 1} {
		if got := s.Apply(p); got != p {
			t.Errorf("Apply(%v) = %v; want %v", p, got, p)
		}
		if got := s.Invert(p); got != p {
			t.Errorf("Invert(%v) = %v; want %v", p, got, p)
		}
	}
}
