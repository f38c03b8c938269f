package volumefader

import "time"

// fade описывает один переход громкости. Запись неизменяема после создания:
// новый FadeTo заменяет её целиком, а не правит на месте.
type fade struct {
	startLevel float64 // fade-уровень в момент старта
	endLevel   float64 // целевой fade-уровень
	startTime  time.Time
	endTime    time.Time
	done       func() // вызывается ровно один раз при естественном завершении
}

// levelAt возвращает fade-уровень в момент now: линейная интерполяция
// по настенным часам, прижатая к отрезку [startLevel, endLevel].
func (fd *fade) levelAt(now time.Time) float64 {
	total := fd.endTime.Sub(fd.startTime)
	if total <= 0 {
		return fd.endLevel
	}
	progress := float64(now.Sub(fd.startTime)) / float64(total)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return fd.startLevel + progress*(fd.endLevel-fd.startLevel)
}

// finished сообщает, дошёл ли переход до конечной отметки времени.
func (fd *fade) finished(now time.Time) bool {
	return !now.Before(fd.endTime)
}
