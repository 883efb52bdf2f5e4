package ziparchive

import "errors"

var (
	ErrContextDone      = errors.New("отмена контекста")
	ErrSourceDir        = errors.New("некорректная исходная директория")
	ErrFileCreateFailed = errors.New("не удалось создать файл")
	ErrFileOpenFailed   = errors.New("не удалось открыть файл")
	ErrFileCopyFailed   = errors.New("не удалось скопировать файл")
	ErrZipFinalize      = errors.New("не удалось завершить запись архива")
)
