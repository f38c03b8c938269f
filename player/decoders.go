package player

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/youpy/go-wav"
	"github.com/zaf/g711"
)

// getReadSeeker определяет источник аудио: локальный путь или URL.
// URL скачивается во временный файл, чтобы декодерам было куда перематываться.
func getReadSeeker(path string) (io.ReadSeeker, io.Closer, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, nil, fmt.Errorf("http error: %s", resp.Status)
		}

		tempFile, err := os.CreateTemp("", "audio-track-*.tmp")
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка создания temp-файла: %v", err)
		}

		_, err = io.Copy(tempFile, resp.Body)
		if err != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
			return nil, nil, fmt.Errorf("ошибка загрузки трека: %v", err)
		}

		tempFile.Seek(0, io.SeekStart)

		// Обёртка удалит файл с диска при закрытии.
		return tempFile, &tempFileCloser{tempFile}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil // os.File — и ReadSeeker, и Closer
}

// tempFileCloser удаляет временный файл после проигрывания.
type tempFileCloser struct {
	f *os.File
}

func (t *tempFileCloser) Close() error {
	filePath := t.f.Name()
	t.f.Close()

	time.Sleep(10 * time.Millisecond)

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("не удалось удалить временный файл %s: %v", filePath, err)
	}
	return nil
}

// readSeekerAt нужен WAV-декодеру, которому требуется метод ReadAt.
type readSeekerAt interface {
	io.ReadSeeker
	io.ReaderAt
}

// wavWrapper адаптирует результат youpy/go-wav под decodedStream.
type wavWrapper struct {
	io.ReadSeeker
	sampleRate int
}

func (w *wavWrapper) SampleRate() int { return w.sampleRate }

func (w *wavWrapper) Length() int64 {
	currentPos, _ := w.ReadSeeker.Seek(0, io.SeekCurrent)
	totalSize, _ := w.ReadSeeker.Seek(0, io.SeekEnd)
	w.ReadSeeker.Seek(currentPos, io.SeekStart)

	return totalSize
}

// memStream — декодированный в память поток (для G.711: телефонные записи
// малы, держать их целиком в памяти дешевле, чем декодировать на лету).
type memStream struct {
	*bytes.Reader
	sampleRate int
}

func (m *memStream) SampleRate() int { return m.sampleRate }
func (m *memStream) Length() int64   { return m.Reader.Size() }

// getDecoder выбирает декодер по содержимому потока, а для сырых
// телефонных форматов без заголовка — по расширению файла.
func getDecoder(rs io.ReadSeeker, path string) (decodedStream, error) {
	// 1. Пробуем декодировать как MP3.
	mp3Stream, err := mp3.NewDecoder(rs)
	if err == nil {
		return mp3Stream, nil
	}

	// Сбрасываем указатель после неудачной попытки.
	rs.Seek(0, io.SeekStart)

	// 2. Пробуем декодировать как WAV.
	if rsa, ok := rs.(readSeekerAt); ok {
		d := wav.NewReader(rsa)
		finfo, err := d.Format()
		if err == nil {
			rsa.Seek(0, io.SeekStart)
			return &wavWrapper{rsa, int(finfo.SampleRate)}, nil
		}
		rsa.Seek(0, io.SeekStart)
	}

	// 3. Сырой G.711 заголовка не имеет — ориентируемся на расширение.
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ul", ".ulaw", ".al", ".alaw":
		return decodeG711(rs, ext)
	}

	return nil, fmt.Errorf("file content doesn't match extension or format is unsupported: %s", ext)
}

// g711SampleRate — частота дискретизации телефонного звука, всегда 8 кГц.
const g711SampleRate = 8000

// decodeG711 разворачивает µ-law/A-law в 16-битный LPCM. Декодер отдаёт
// моно-поток, движок настроен на два канала, поэтому каждый семпл дублируем.
func decodeG711(rs io.ReadSeeker, ext string) (decodedStream, error) {
	var (
		dec *g711.Decoder
		err error
	)
	switch ext {
	case ".al", ".alaw":
		dec, err = g711.NewAlawDecoder(rs)
	default:
		dec, err = g711.NewUlawDecoder(rs)
	}
	if err != nil {
		return nil, err
	}

	mono, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования G.711: %v", err)
	}

	stereo := make([]byte, 0, len(mono)*2)
	for i := 0; i+1 < len(mono); i += 2 {
		stereo = append(stereo, mono[i], mono[i+1], mono[i], mono[i+1])
	}
	return &memStream{bytes.NewReader(stereo), g711SampleRate}, nil
}

// CleanUpTempFiles удаляет временные файлы, оставшиеся от прошлых запусков.
func CleanUpTempFiles() {
	tempDir := os.TempDir()
	files, err := os.ReadDir(tempDir)
	if err != nil {
		return
	}

	for _, file := range files {
		if !file.IsDir() && strings.HasPrefix(file.Name(), "audio-track-") && strings.HasSuffix(file.Name(), ".tmp") {
			fullPath := filepath.Join(tempDir, file.Name())
			_ = os.Remove(fullPath)
		}
	}
}
