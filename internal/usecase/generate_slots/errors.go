package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается, когда не удалось получить список услуг
	ErrInternal = errors.New("generate_slots: internal error")
)
