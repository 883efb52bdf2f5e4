package httpfetch

import "errors"

var (
	ErrInvalidFileURL     = errors.New("некорректный URL файла")
	ErrFileDownloadFailed = errors.New("не удалось загрузить файл")
	ErrFileCreateFailed   = errors.New("не удалось создать файл")
	ErrFileCopyFailed     = errors.New("не удалось записать файл")
	ErrRateLimit          = errors.New("ожидание лимита запросов прервано")
)
