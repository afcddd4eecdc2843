package booking_detail

import "errors"

var (
	// ErrBookingDetailNotFound возвращается, когда запись не найдена
	ErrBookingDetailNotFound = errors.New("booking_detail.repository: booking detail not found")

	// ErrStatusConflict возвращается, когда статус записи изменился между чтением и обновлением
	ErrStatusConflict = errors.New("booking_detail.repository: status changed concurrently")

	// ErrNotEditable возвращается при попытке изменить запись в терминальном статусе
	ErrNotEditable = errors.New("booking_detail.repository: booking detail is not editable")

	// ErrDuplicatePatient возвращается, когда пациент уже записан на этот слот
	ErrDuplicatePatient = errors.New("booking_detail.repository: patient already booked for this slot")

	// ErrInvalidReference возвращается, когда бронирование, услуга или слот не существуют
	ErrInvalidReference = errors.New("booking_detail.repository: referenced entity does not exist")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking_detail.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking_detail.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking_detail.repository: failed to scan row")
)
