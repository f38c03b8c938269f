// Package player проигрывает аудиофайлы (mp3, wav, сырой G.711) через
// движок Oto и отдаёт их как носители громкости для фейдера:
// *Track удовлетворяет интерфейсу volumefader.Media.
package player

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx    *oto.Context
	once      sync.Once
	engineErr error
)

// initEngine инициализирует аудио-движок Oto один раз за время работы
// программы. Частоту дискретизации фиксирует первый открытый трек.
func initEngine(sampleRate int) error {
	once.Do(func() {
		CleanUpTempFiles()
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, engineErr = oto.NewContext(op)
		if engineErr == nil {
			<-ready
		}
	})
	return engineErr
}

// trackingStream оборачивает поток аудиоданных и отслеживает позицию чтения.
// Прямой опрос плеера о позиции может вызвать заикание звука, поэтому
// считаем байты сами.
type trackingStream struct {
	decodedStream
	currentPos int64
	mu         sync.Mutex
}

// Read считывает данные из декодера и обновляет счётчик прочитанных байт.
func (ts *trackingStream) Read(p []byte) (n int, err error) {
	n, err = ts.decodedStream.Read(p)
	ts.mu.Lock()
	ts.currentPos += int64(n)
	ts.mu.Unlock()
	return n, err
}

// Seek изменяет позицию в декодере и синхронизирует внутренний счётчик.
func (ts *trackingStream) Seek(offset int64, whence int) (int64, error) {
	newPos, err := ts.decodedStream.Seek(offset, whence)
	if err == nil {
		ts.mu.Lock()
		ts.currentPos = newPos
		ts.mu.Unlock()
	}
	return newPos, err
}

// CurrentPos возвращает количество байт, прошедших через поток.
func (ts *trackingStream) CurrentPos() int64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.currentPos
}

// decodedStream объединяет чтение с перемоткой и частоту дискретизации.
type decodedStream interface {
	io.ReadSeeker
	SampleRate() int
}

// streamLength возвращает общий размер декодированных данных, если декодер
// умеет его сообщать (go-mp3 отдаёт int64, обёртки — int64 или int).
func streamLength(stream decodedStream) int64 {
	if l, ok := stream.(interface{ Length() int64 }); ok {
		return l.Length()
	}
	if l, ok := stream.(interface{ Length() int }); ok {
		return int64(l.Length())
	}
	return 0
}
