package inmem

import "errors"

var (
	ErrRunNotFound = errors.New("запуск не найден")
	ErrRunNil      = errors.New("запуск не может быть nil")
	ErrRunIDEmpty  = errors.New("ID запуска не может быть пустым")
	ErrRunExists   = errors.New("запуск с таким ID уже существует")
	ErrContextDone = errors.New("отмена контекста")
)
