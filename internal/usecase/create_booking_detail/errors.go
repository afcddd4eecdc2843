package create_booking_detail

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_booking_detail: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому аккаунту
	ErrAccessDenied = errors.New("create_booking_detail: access denied")

	// ErrInvalidReference возвращается, когда слот или услуга не существуют либо слот относится к другой услуге
	ErrInvalidReference = errors.New("create_booking_detail: invalid slot or test service reference")

	// ErrCapacityExceeded возвращается, когда в слоте не осталось мест
	ErrCapacityExceeded = errors.New("create_booking_detail: slot capacity exceeded")

	// ErrDuplicatePatient возвращается, когда пациент уже записан в этот слот
	ErrDuplicatePatient = errors.New("create_booking_detail: patient already booked for this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking_detail: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking_detail: internal error")
)
