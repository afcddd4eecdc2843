package create_booking_detail

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	createDetail "github.com/m04kA/SMC-LabBookingService/internal/usecase/create_booking_detail"
)

// CreateBookingDetailRequest HTTP запрос на запись пациента в слот
type CreateBookingDetailRequest struct {
	BookingID     int64  `json:"bookingId"`
	TestServiceID int64  `json:"testServiceId"`
	SlotID        int64  `json:"slotId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"` // Формат: YYYY-MM-DD
	Phone         string `json:"phone"`
	Gender        string `json:"gender"`
}

// CreateBookingDetailResponse HTTP ответ с созданной записью
type CreateBookingDetailResponse struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"bookingId"`
	TestServiceID int64     `json:"testServiceId"`
	SlotID        int64     `json:"slotId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	DateOfBirth   string    `json:"dateOfBirth"`
	Phone         string    `json:"phone"`
	Gender        string    `json:"gender"`
	Status        string    `json:"status"`
	SlotRemaining int       `json:"slotRemaining"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingDetailRequest) ToUseCaseRequest(caller domain.Caller) (*createDetail.Request, error) {
	dob, err := time.Parse(domain.DateFormat, r.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &createDetail.Request{
		AccountID:     caller.AccountID,
		Role:          caller.Role,
		BookingID:     r.BookingID,
		TestServiceID: r.TestServiceID,
		SlotID:        r.SlotID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		DateOfBirth:   dob,
		Phone:         r.Phone,
		Gender:        r.Gender,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *createDetail.Response) *CreateBookingDetailResponse {
	return &CreateBookingDetailResponse{
		ID:            resp.ID,
		BookingID:     resp.BookingID,
		TestServiceID: resp.TestServiceID,
		SlotID:        resp.SlotID,
		FirstName:     resp.Patient.FirstName,
		LastName:      resp.Patient.LastName,
		DateOfBirth:   resp.Patient.DateOfBirth.Format(domain.DateFormat),
		Phone:         resp.Patient.Phone,
		Gender:        string(resp.Patient.Gender),
		Status:        resp.Status,
		SlotRemaining: resp.SlotRemaining,
		CreatedAt:     resp.CreatedAt,
		UpdatedAt:     resp.UpdatedAt,
	}
}
