package player

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/youpy/go-wav"
)

// Тест перевода секунд в байты и обратно (convert.go)
func TestConversion(t *testing.T) {
	sampleRate := 44100
	seconds := 5.0

	// Ожидаем: 5 * 44100 * 4 = 882000 байт
	b := secondsToBytes(seconds, sampleRate)
	expectedBytes := int64(882000)

	if b != expectedBytes {
		t.Errorf("secondsToBytes() = %d; want %d", b, expectedBytes)
	}

	resSeconds := bytesToSeconds(b, sampleRate)
	if resSeconds != seconds {
		t.Errorf("bytesToSeconds() = %f; want %f", resSeconds, seconds)
	}

	// Смещение всегда выровнено по границе фрейма.
	if off := secondsToBytes(0.333, sampleRate); off%frameBytes != 0 {
		t.Errorf("secondsToBytes(0.333) = %d is not frame-aligned", off)
	}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name     string
		input    TrackParams
		expected float64
	}{
		{"Default volume", TrackParams{Volume: 0}, 1.0},
		{"Keep volume", TrackParams{Volume: 0.5}, 0.5},
		{"Cap volume", TrackParams{Volume: 5.0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validateParams(tt.input)
			if p.Volume != tt.expected {
				t.Errorf("validateParams() volume = %v, want %v", p.Volume, tt.expected)
			}
		})
	}

	if p := validateParams(TrackParams{Position: -3}); p.Position != 0 {
		t.Errorf("validateParams() position = %v, want 0", p.Position)
	}
}

// Тест выбора декодера: WAV собирается в памяти через youpy/go-wav.
func TestDecodeWav(t *testing.T) {
	var buf bytes.Buffer
	w := wav.NewWriter(&buf, 128, 2, 22050, 16)
	if err := w.WriteSamples(make([]wav.Sample, 128)); err != nil {
		t.Fatalf("ошибка записи WAV: %v", err)
	}

	stream, err := getDecoder(bytes.NewReader(buf.Bytes()), "test.wav")
	if err != nil {
		t.Fatalf("getDecoder() error: %v", err)
	}
	if got := stream.SampleRate(); got != 22050 {
		t.Errorf("SampleRate() = %d; want 22050", got)
	}
}

// Сырой µ-law: один байт на семпл, после декодирования — стерео int16.
func TestDecodeG711(t *testing.T) {
	data := bytes.Repeat([]byte{0x55}, 64)

	stream, err := getDecoder(bytes.NewReader(data), "call.ul")
	if err != nil {
		t.Fatalf("getDecoder() error: %v", err)
	}
	if got := stream.SampleRate(); got != g711SampleRate {
		t.Errorf("SampleRate() = %d; want %d", got, g711SampleRate)
	}
	if got := streamLength(stream); got != int64(len(data))*4 {
		t.Errorf("Length() = %d; want %d", got, len(data)*4)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	if _, err := getDecoder(bytes.NewReader([]byte("not audio")), "notes.txt"); err == nil {
		t.Error("getDecoder() accepted garbage input")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("definitely-missing.mp3", TrackParams{}); err == nil {
		t.Error("Open() did not fail on a missing file")
	}
}

// ===================================================================
// тест автоматического закрытия канала done после окончания трека

// mockStream имитирует аудио-поток, который мгновенно заканчивается.
type mockStream struct{}

func (m *mockStream) Read(p []byte) (n int, err error) {
	return 0, io.EOF // Имитируем конец файла
}

func (m *mockStream) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}

func (m *mockStream) SampleRate() int {
	return 44100
}

// mockCloser имитирует закрытие файла.
type mockCloser struct{}

func (m *mockCloser) Close() error { return nil }

func TestMonitorClosesDone(t *testing.T) {
	// На CI без аудиокарты движок не поднимется — пропускаем.
	if err := initEngine(44100); err != nil {
		t.Skipf("Пропуск: аудио-движок не инициализирован: %v", err)
	}

	tracker := &trackingStream{decodedStream: &mockStream{}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr := &Track{
		player:     otoCtx.NewPlayer(tracker),
		closer:     &mockCloser{},
		tracker:    tracker,
		sampleRate: 44100,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go tr.monitor(ctx)

	select {
	case <-tr.Done():
		// Успех: незацикленный трек закончился, канал закрыт
	case <-time.After(2 * time.Second):
		t.Error("Таймаут: мониторинг не закрыл канал done вовремя")
	}
}
