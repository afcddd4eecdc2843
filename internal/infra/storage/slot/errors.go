package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotFull возвращается, когда в слоте не осталось свободных мест
	ErrSlotFull = errors.New("slot.repository: slot is full")

	// ErrSlotAlreadyExists возвращается при попытке создать дубликат (услуга, дата, смена)
	ErrSlotAlreadyExists = errors.New("slot.repository: slot already exists for service, date and shift")

	// ErrSlotInUse возвращается при попытке удалить слот, на который ссылаются записи
	ErrSlotInUse = errors.New("slot.repository: slot is referenced by booking details")

	// ErrCapacityBelowOccupancy возвращается при попытке уменьшить вместимость ниже занятости
	ErrCapacityBelowOccupancy = errors.New("slot.repository: capacity is below current occupancy")

	// ErrTestServiceNotFound возвращается, когда слот ссылается на несуществующую услугу
	ErrTestServiceNotFound = errors.New("slot.repository: test service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
