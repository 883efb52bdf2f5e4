package archive_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrServerBusy = errors.New("сервер занят, достигнуто максимальное количество архивов в процессе")

	ErrInvalidNumber = errors.New("некорректный номер демарша")
	ErrTokenMissing  = errors.New("не передан токен API")

	ErrUnauthorized = errors.New("токен не принят API demarches-simplifiees")
	ErrNotFound     = errors.New("демарш не найден")
	ErrUnknown      = errors.New("неизвестная ошибка при получении демарша")

	ErrRunSave        = errors.New("не удалось сохранить запуск")
	ErrRunGet         = errors.New("не удалось получить запуск")
	ErrWorkspace      = errors.New("не удалось подготовить рабочую директорию")
	ErrMetadataWrite  = errors.New("не удалось записать метаданные")
	ErrArchiveBuild   = errors.New("не удалось создать архив")
	ErrTransmitFailed = errors.New("не удалось передать архив")
)
