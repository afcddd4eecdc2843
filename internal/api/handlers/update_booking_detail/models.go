package update_booking_detail

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

// UpdateBookingDetailRequest HTTP запрос на изменение данных пациента
type UpdateBookingDetailRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"` // Формат: YYYY-MM-DD
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingDetailRequest) ToServiceRequest() (*models.UpdatePatientRequest, error) {
	dob, err := time.Parse(domain.DateFormat, r.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &models.UpdatePatientRequest{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		Phone:       r.Phone,
		Gender:      r.Gender,
	}, nil
}
