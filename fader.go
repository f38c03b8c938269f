// Package volumefader плавно изменяет громкость проигрываемого источника
// звука за заданное время. Резкая запись новой громкости слышна как щелчок
// или скачок; фейдер вместо этого ведёт громкость к цели серией мелких
// шагов, пропуская уровень через перцептивную (по умолчанию —
// логарифмическую) шкалу.
//
// Фейдер привязывается к любому носителю с читаемой и записываемой
// громкостью [0,1] (см. Media) и владеет не более чем одним активным
// переходом: новый FadeTo атомарно вытесняет предыдущий.
package volumefader

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Fader — контроллер плавной громкости. Создаётся через New,
// безопасен для вызовов из нескольких горутин.
type Fader struct {
	mu sync.Mutex

	media    Media
	scale    Scale
	duration time.Duration
	interval time.Duration
	mode     StepMode
	hosted   bool
	logger   *log.Logger

	now func() time.Time // подменяется в тестах

	active  bool
	current *fade
	cancel  context.CancelFunc
}

// New привязывает фейдер к носителю и применяет опции. Носитель обязателен;
// остальное опционально (opts может быть nil). Цикл обновления не запускается —
// он стартует при первом FadeTo или явном Start.
//
// В строгом режиме (opts.Strict) недопустимая опция возвращает ошибку,
// обёрнутую в ErrInvalidArgument; иначе берётся значение по умолчанию.
func New(media Media, opts *Options) (*Fader, error) {
	if media == nil {
		return nil, fmt.Errorf("media must not be nil: %w", ErrInvalidArgument)
	}
	if opts == nil {
		opts = &Options{}
	}

	f := &Fader{
		media:    media,
		scale:    defaultScale(),
		duration: DefaultFadeDuration,
		interval: DefaultTickInterval,
		mode:     ModeTimed,
		hosted:   opts.HostDriven,
		logger:   opts.Logger,
		now:      time.Now,
	}
	if opts.Scale.Apply != nil {
		f.scale = opts.Scale
	}

	if opts.Duration != 0 {
		if err := checkDuration(opts.Duration); err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("fade duration: %w", err)
			}
			f.logf("fader: ignoring fade duration %v, using default %v", opts.Duration, f.duration)
		} else {
			f.duration = opts.Duration
		}
	}

	if opts.Interval != 0 {
		if err := checkDuration(opts.Interval); err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("tick interval: %w", err)
			}
			f.logf("fader: ignoring tick interval %v, using default %v", opts.Interval, f.interval)
		} else {
			f.interval = opts.Interval
		}
	}

	if opts.Mode != ModeTimed && opts.Mode != ModeIncremental {
		if opts.Strict {
			return nil, fmt.Errorf("unknown step mode %d: %w", opts.Mode, ErrInvalidArgument)
		}
		f.logf("fader: ignoring unknown step mode %d", opts.Mode)
	} else {
		f.mode = opts.Mode
	}

	if opts.Volume != nil {
		if err := checkLevel(*opts.Volume); err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("initial volume: %w", err)
			}
			f.logf("fader: ignoring initial volume %v", *opts.Volume)
		} else {
			// Начальная громкость задаётся в fade-области и проходит
			// через ту же шкалу, что и цель FadeTo.
			media.SetVolume(f.scale.Apply(*opts.Volume))
		}
	}

	return f, nil
}

// SetFadeDuration задаёт длительность последующих фейдов.
// Уже идущий переход сохраняет свою длительность.
func (f *Fader) SetFadeDuration(d time.Duration) error {
	if err := checkDuration(d); err != nil {
		return fmt.Errorf("fade duration: %w", err)
	}
	f.mu.Lock()
	f.duration = d
	f.mu.Unlock()
	f.logf("fader: fade duration set to %v", d)
	return nil
}

// FadeDuration возвращает текущую длительность новых фейдов.
func (f *Fader) FadeDuration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

// Active сообщает, работает ли цикл обновления.
func (f *Fader) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Fading сообщает, есть ли незавершённый переход (в том числе замороженный
// после Stop).
func (f *Fader) Fading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}

// FadeTo плавно ведёт громкость к целевому fade-уровню [0,1] за текущую
// длительность фейда. Предыдущий незавершённый переход вытесняется, его
// коллбек не вызывается никогда. done (необязателен) вызывается ровно один
// раз при естественном завершении нового перехода.
//
// Стартовым уровнем служит текущая громкость носителя, возвращённая в
// fade-область обратной функцией шкалы (или как есть, если шкала без Invert).
func (f *Fader) FadeTo(target float64, done func()) error {
	if err := checkLevel(target); err != nil {
		return fmt.Errorf("fade target: %w", err)
	}

	f.mu.Lock()
	now := f.now()
	f.current = &fade{
		startLevel: f.levelFromMedia(),
		endLevel:   target,
		startTime:  now,
		endTime:    now.Add(f.duration),
		done:       done,
	}
	active := f.active
	f.mu.Unlock()

	f.logf("fader: fading to %.3f over %v", target, f.duration)
	if active {
		// Цикл уже крутится: выполняем первый шаг сразу, не дожидаясь тика.
		f.Update()
	} else {
		f.Start()
	}
	return nil
}

// FadeIn — то же, что FadeTo(1, done).
func (f *Fader) FadeIn(done func()) *Fader {
	_ = f.FadeTo(1, done) // цель 1 валидна всегда
	return f
}

// FadeOut — то же, что FadeTo(0, done).
func (f *Fader) FadeOut(done func()) *Fader {
	_ = f.FadeTo(0, done)
	return f
}

// Start включает цикл обновления и сразу выполняет первый шаг. Повторный
// вызов на активном фейдере безвреден. Замороженный после Stop переход
// продолжается от своих исходных отметок времени: прогресс считается по
// настенным часам, пауза из него не вычитается.
func (f *Fader) Start() *Fader {
	f.mu.Lock()
	if f.active {
		f.mu.Unlock()
		return f
	}
	f.active = true
	var ctx context.Context
	if !f.hosted {
		ctx, f.cancel = context.WithCancel(context.Background())
	}
	interval := f.interval
	f.mu.Unlock()

	f.logf("fader: started")
	if !f.Update() {
		// Первый же шаг завершил переход, цикл не нужен.
		return f
	}
	if ctx != nil {
		go f.loop(ctx, interval)
	}
	return f
}

// Stop выключает цикл обновления. Идущий переход не сбрасывается, а
// замирает; Stop на неактивном фейдере — no-op.
func (f *Fader) Stop() *Fader {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return f
	}
	f.active = false
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.logf("fader: stopped")
	return f
}

// loop — собственный планировщик: тикаем, пока фейдер активен.
func (f *Fader) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !f.Update() {
				return
			}
		}
	}
}

// Update выполняет один шаг обновления: интерполирует прогресс, пропускает
// уровень через шкалу и записывает громкость в носитель. Возвращает true,
// пока фейдер остаётся активным (то есть цикл должен тикать дальше).
// Экспортирован для хостов, которые планируют шаги сами (см. Options.HostDriven).
func (f *Fader) Update() bool {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return false
	}
	cur := f.current
	if cur == nil {
		// Активен, но переходить некуда: ждём следующего FadeTo или Stop.
		f.mu.Unlock()
		return true
	}

	now := f.now()
	if cur.finished(now) {
		// Конечную громкость выставляем точно, без следов промежуточных
		// округлений, и завершаем переход безусловно — даже если коллбек
		// потом упадёт.
		volume := f.scale.Apply(cur.endLevel)
		f.media.SetVolume(volume)
		done := cur.done
		f.current = nil
		f.active = false
		cancel := f.cancel
		f.cancel = nil
		f.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		f.logf("fader: fade finished at volume %.4f", volume)
		if done != nil {
			f.callback(done)
		}
		return false
	}

	var level float64
	if f.mode == ModeIncremental {
		level = f.incrementalLevel(cur, now)
	} else {
		level = cur.levelAt(now)
	}
	f.media.SetVolume(f.scale.Apply(level))
	f.mu.Unlock()
	return true
}

// incrementalLevel — наследная пошаговая формула: от текущего уровня к цели
// прибавляется доля оставшейся дельты, пропорциональная периоду тика.
func (f *Fader) incrementalLevel(cur *fade, now time.Time) float64 {
	remaining := cur.endTime.Sub(now)
	if remaining <= f.interval {
		return cur.endLevel
	}
	level := f.levelFromMedia()
	step := (cur.endLevel - level) * float64(f.interval) / float64(remaining)
	return clamp01(level + step)
}

// levelFromMedia восстанавливает fade-уровень из текущей громкости носителя.
// Вызывается под мьютексом.
func (f *Fader) levelFromMedia() float64 {
	volume := f.media.Volume()
	if f.scale.Invert != nil {
		return f.scale.Invert(volume)
	}
	return clamp01(volume)
}

// callback вызывает пользовательский коллбек, не позволяя его панике
// уронить горутину цикла. Запись о переходе к этому моменту уже очищена.
func (f *Fader) callback(done func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logf("fader: fade callback panicked: %v", r)
		}
	}()
	done()
}

func (f *Fader) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}
