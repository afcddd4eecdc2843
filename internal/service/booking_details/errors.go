package booking_details

import "errors"

var (
	// ErrBookingDetailNotFound возвращается, когда запись не найдена
	ErrBookingDetailNotFound = errors.New("booking detail not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса,
	// в том числе когда статус успели изменить параллельно
	ErrInvalidTransition = errors.New("invalid booking detail status transition")

	// ErrNotEditable возвращается при изменении записи в терминальном статусе
	ErrNotEditable = errors.New("booking detail is not editable")

	// ErrDuplicatePatient возвращается, когда пациент уже записан в этот слот
	ErrDuplicatePatient = errors.New("patient already booked for this slot")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
