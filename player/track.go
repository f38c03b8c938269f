package player

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	volumefader "github.com/bitfasching/VolumeFader"
)

// TrackParams содержит настройки открытия трека.
type TrackParams struct {
	Volume   float64 // Громкость [0,1]; 0 трактуется как «не задана» → 1.0
	Loop     bool    // Зацикливание трека
	Position float64 // С какой секунды начать
}

// Track — открытый аудиофайл: плеер Oto плюс транспортные операции.
// Громкость читается и пишется напрямую в плеер, поэтому Track пригоден
// как носитель для volumefader.Fader.
type Track struct {
	mu         sync.Mutex
	player     *oto.Player
	closer     io.Closer
	tracker    *trackingStream
	sampleRate int
	totalBytes int64
	loop       bool
	paused     bool

	fader     *volumefader.Fader
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Open готовит трек к проигрыванию: определяет источник (файл или URL),
// подбирает декодер, поднимает движок и создаёт плеер. Воспроизведение
// не начинается — вызовите Play.
func Open(path string, params TrackParams) (*Track, error) {
	params = validateParams(params)

	// Шаг 1: получаем доступ к данным (файл или сеть).
	rs, closer, err := getReadSeeker(path)
	if err != nil {
		return nil, err
	}

	// Шаг 2: инициализируем нужный декодер.
	stream, err := getDecoder(rs, path)
	if err != nil {
		closer.Close()
		return nil, err
	}

	// Шаг 3: подготавливаем аудио-движок.
	if err := initEngine(stream.SampleRate()); err != nil {
		closer.Close()
		return nil, err
	}

	// Шаг 4: создаём плеер поверх счётчика позиции.
	tracker := &trackingStream{decodedStream: stream}
	player := otoCtx.NewPlayer(tracker)
	player.SetVolume(params.Volume)

	if params.Position > 0 {
		offset := secondsToBytes(params.Position, stream.SampleRate())
		if _, err := player.Seek(offset, io.SeekStart); err != nil {
			closer.Close()
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Track{
		player:     player,
		closer:     closer,
		tracker:    tracker,
		sampleRate: stream.SampleRate(),
		totalBytes: streamLength(stream),
		loop:       params.Loop,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	// Шаг 5: фоновый мониторинг — зацикливание и закрытие по концу трека.
	go t.monitor(ctx)
	return t, nil
}

// monitor следит за окончанием трека и реализует логику Loop.
func (t *Track) monitor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}

		t.mu.Lock()
		playing := t.player.IsPlaying()
		paused := t.paused
		loop := t.loop
		t.mu.Unlock()

		if playing || paused {
			continue
		}

		if !loop {
			t.finish()
			return
		}

		// Перематываем поток в начало и запускаем заново.
		t.mu.Lock()
		if _, err := t.tracker.Seek(0, io.SeekStart); err != nil {
			t.mu.Unlock()
			t.finish()
			return
		}
		t.player.Play()
		t.mu.Unlock()

		// Защита от слишком частого перезапуска.
		time.Sleep(200 * time.Millisecond)
	}
}

// finish помечает трек завершённым и освобождает источник данных.
func (t *Track) finish() {
	t.closeOnce.Do(func() {
		t.closer.Close()
		close(t.done)
	})
}

// Play начинает или продолжает воспроизведение.
func (t *Track) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
	t.player.Play()
}

// Pause приостанавливает воспроизведение. Мониторинг при этом не считает
// трек закончившимся.
func (t *Track) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
	t.player.Pause()
}

// IsPlaying сообщает, идёт ли воспроизведение прямо сейчас.
func (t *Track) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.IsPlaying()
}

// Volume возвращает текущую громкость плеера.
func (t *Track) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.Volume()
}

// SetVolume мгновенно выставляет громкость плеера. Для плавного перехода
// пользуйтесь Fader.
func (t *Track) SetVolume(volume float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player.SetVolume(volume)
}

// Fader возвращает контроллер плавной громкости, привязанный к треку.
// Создаётся лениво, один на трек.
func (t *Track) Fader() *volumefader.Fader {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fader == nil {
		t.fader, _ = volumefader.New(t, nil) // носитель не nil, ошибка невозможна
	}
	return t.fader
}

// Seek перематывает трек на указанную секунду.
func (t *Track) Seek(seconds float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	offset := secondsToBytes(seconds, t.sampleRate)
	_, err := t.player.Seek(offset, io.SeekStart)
	return err
}

// Position возвращает текущую позицию трека в секундах.
func (t *Track) Position() float64 {
	return bytesToSeconds(t.tracker.CurrentPos(), t.sampleRate)
}

// Duration возвращает общую длительность трека в секундах.
// Для потоков без известной длины возвращает 0.
func (t *Track) Duration() float64 {
	return bytesToSeconds(t.totalBytes, t.sampleRate)
}

// Done закрывается, когда незацикленный трек доиграл до конца
// или трек закрыт.
func (t *Track) Done() <-chan struct{} {
	return t.done
}

// Close останавливает воспроизведение и освобождает ресурсы.
func (t *Track) Close() error {
	t.mu.Lock()
	fader := t.fader
	t.mu.Unlock()
	if fader != nil {
		fader.Stop()
	}

	t.cancel()

	t.mu.Lock()
	t.player.Pause()
	err := t.player.Close()
	t.mu.Unlock()

	t.finish()
	return err
}
