package dsapi

import "errors"

var (
	ErrUnauthorized = errors.New("токен отклонен API demarches-simplifiees")
	ErrNotFound     = errors.New("демарш не найден")
	ErrUnknown      = errors.New("ошибка API demarches-simplifiees")
	ErrTooManyPages = errors.New("превышено количество страниц досье")
)
