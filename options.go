package volumefader

import (
	"fmt"
	"log"
	"math"
	"time"
)

const (
	// DefaultFadeDuration применяется к новым фейдам, если длительность не задана.
	DefaultFadeDuration = 700 * time.Millisecond
	// DefaultTickInterval — период собственного цикла обновления.
	DefaultTickInterval = 25 * time.Millisecond
)

// StepMode выбирает формулу одного шага обновления.
type StepMode int

const (
	// ModeTimed — канонический режим: прогресс считается от настенных часов,
	// поэтому дрожание периода тиков не влияет на точность.
	ModeTimed StepMode = iota
	// ModeIncremental — наследный режим: каждый тик к громкости прибавляется
	// пропорциональный шаг до цели. Накапливает ошибку при нестабильных тиках,
	// оставлен для совместимости с пошаговым поведением.
	ModeIncremental
)

// Options — настройки фейдера. Нулевое значение даёт рабочую конфигурацию
// по умолчанию: логарифмическая шкала на 60 дБ, фейд 700 мс, тик 25 мс.
type Options struct {
	// Volume — начальная громкость в fade-области [0,1]. Перед записью в
	// носитель пропускается через шкалу, как и цель FadeTo. nil — не трогать.
	Volume *float64

	// Duration — длительность новых фейдов, > 0.
	Duration time.Duration

	// Interval — период тиков собственного цикла обновления, > 0.
	Interval time.Duration

	// Scale — перцептивная шкала. Пустая (Apply == nil) — LogScale(60).
	Scale Scale

	// Mode — формула шага, см. StepMode.
	Mode StepMode

	// Strict — строгий режим: недопустимая опция делает конструктор ошибкой.
	// Иначе недопустимые опции молча заменяются значениями по умолчанию
	// (с диагностикой в Logger, если он задан).
	Strict bool

	// HostDriven — не запускать собственный цикл: хост сам вызывает Update
	// с нужной ему частотой (покадровый коллбек, внешний таймер, тесты).
	HostDriven bool

	// Logger — приёмник диагностики, по одной строке на смену состояния.
	// nil — молчать.
	Logger *log.Logger
}

// checkLevel проверяет громкость fade-области на попадание в [0,1].
func checkLevel(level float64) error {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("volume level %v is out of range [0,1]: %w", level, ErrInvalidArgument)
	}
	return nil
}

// checkDuration проверяет, что длительность конечна и положительна.
func checkDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration %v must be positive: %w", d, ErrInvalidArgument)
	}
	return nil
}
