package create_booking_detail

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	AccountID     int64  // ID аккаунта из токена
	Role          string // Роль из токена
	BookingID     int64  // ID бронирования
	TestServiceID int64  // ID услуги
	SlotID        int64  // ID слота
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Phone         string
	Gender        string
}

// Response модель ответа с созданной записью
type Response struct {
	ID            int64
	BookingID     int64
	TestServiceID int64
	SlotID        int64
	Patient       domain.Patient
	Status        string
	SlotRemaining int // Свободных мест в слоте после записи

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Request) patient() domain.Patient {
	return domain.Patient{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		Phone:       r.Phone,
		Gender:      domain.Gender(r.Gender),
	}.Normalize()
}
