package workspace

import "errors"

var (
	ErrContextDone  = errors.New("отмена контекста")
	ErrMkdirFailed  = errors.New("не удалось создать директорию")
	ErrRemoveFailed = errors.New("не удалось удалить директорию")
	ErrInvalidPath  = errors.New("путь выходит за пределы рабочей директории")
	ErrNilWorkspace = errors.New("рабочая директория не может быть nil")
)
