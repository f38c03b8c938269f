package volumefader

// Media — минимальная способность носителя звука, от которой зависит фейдер:
// читаемая и записываемая громкость в диапазоне [0,1]. Больше контроллеру
// от хоста ничего не нужно.
//
// Этому интерфейсу удовлетворяют *oto.Player и *player.Track.
//
// Пока фейд активен, единственным писателем громкости должен быть фейдер.
// Прямое изменение громкости носителя во время фейда ломает базу интерполяции;
// защиты от этого нет — это обязанность вызывающей стороны.
type Media interface {
	Volume() float64
	SetVolume(volume float64)
}
