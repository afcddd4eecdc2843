package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrCapacityExceeded возвращается при попытке занять место в заполненном слоте
	ErrCapacityExceeded = errors.New("slot capacity exceeded")

	// ErrSlotAlreadyExists возвращается, когда слот для (услуга, дата, смена) уже есть
	ErrSlotAlreadyExists = errors.New("slot already exists")

	// ErrSlotInUse возвращается при удалении слота, на который ссылаются записи
	ErrSlotInUse = errors.New("slot is referenced by booking details")

	// ErrCapacityBelowOccupancy возвращается, когда новая вместимость меньше занятости
	ErrCapacityBelowOccupancy = errors.New("capacity is below current occupancy")

	// ErrTestServiceNotFound возвращается, когда услуга не найдена или удалена
	ErrTestServiceNotFound = errors.New("test service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
