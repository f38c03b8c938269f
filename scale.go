package volumefader

import "math"

// DefaultScaleRangeDB — динамический диапазон шкалы по умолчанию в децибелах.
// 60 дБ — это три порядка величины, ниже уже воспринимается как тишина.
const DefaultScaleRangeDB = 60.0

// Scale описывает перцептивную шкалу громкости.
// Apply переводит fade-уровень из [0,1] в физическую громкость [0,1].
// Invert (необязателен) восстанавливает fade-уровень из физической громкости;
// если его нет, текущая громкость носителя трактуется как fade-уровень напрямую.
//
// Пользовательская шкала не проверяется контроллером: что отдаст Apply,
// то и будет записано в громкость. Garbage in, garbage out.
type Scale struct {
	Apply  func(level float64) float64
	Invert func(volume float64) float64
}

// LogScale возвращает экспоненциальную шкалу с ограниченным динамическим
// диапазоном rangeDB. Линейный fade-уровень трактуется как позиция в
// логарифмической области: Apply(p) = 10^((p-1)*rangeDB/20).
// Ноль отображается строго в ноль — тишина должна оставаться тишиной,
// а не остаточным шумом в -rangeDB.
func LogScale(rangeDB float64) Scale {
	return Scale{
		Apply: func(level float64) float64 {
			if level <= 0 {
				return 0
			}
			return math.Pow(10, (level-1)*rangeDB/20)
		},
		Invert: func(volume float64) float64 {
			if volume <= 0 {
				return 0
			}
			return clamp01(1 + 20*math.Log10(volume)/rangeDB)
		},
	}
}

// LinearScale — тождественная шкала: fade-уровень и есть громкость.
// Удобна для хостов, которые сами делают перцептивную коррекцию.
func LinearScale() Scale {
	identity := func(v float64) float64 { return v }
	return Scale{Apply: identity, Invert: identity}
}

// defaultScale — шкала, применяемая при пустых опциях.
func defaultScale() Scale {
	return LogScale(DefaultScaleRangeDB)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
