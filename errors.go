package volumefader

import "errors"

// ErrInvalidArgument возвращается при недопустимых входных параметрах:
// громкость вне [0,1], неположительная длительность, nil-носитель.
// Проверяйте через errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
