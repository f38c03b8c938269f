package player

// Фрейм = 2 канала * 2 байта на семпл (int16).
const frameBytes = 4

// secondsToBytes рассчитывает смещение в аудиоданных по времени.
// Результат выровнен по границе фрейма.
func secondsToBytes(seconds float64, sampleRate int) int64 {
	if seconds < 0 {
		return 0
	}
	return int64(seconds*float64(sampleRate)) * frameBytes
}

// bytesToSeconds переводит объём данных в байтах в секунды.
func bytesToSeconds(b int64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(b) / float64(sampleRate*frameBytes)
}

// validateParams проверяет и корректирует параметры перед открытием трека.
func validateParams(p TrackParams) TrackParams {
	// Если громкость не указана или вне диапазона, ставим 1.0 (100%)
	if p.Volume <= 0 || p.Volume > 1 {
		p.Volume = 1.0
	}

	// Позиция не может быть отрицательной
	if p.Position < 0 {
		p.Position = 0
	}

	return p
}
