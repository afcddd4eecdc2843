package models

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// UpdatePatientRequest новые данные пациента
type UpdatePatientRequest struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
	Gender      string
}

// ToDomainPatient конвертирует запрос в нормализованные данные пациента
func (r *UpdatePatientRequest) ToDomainPatient() domain.Patient {
	return domain.Patient{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		Phone:       r.Phone,
		Gender:      domain.Gender(r.Gender),
	}.Normalize()
}

// BookingDetailResponse запись на анализ
type BookingDetailResponse struct {
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
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookingDetailListResponse записи одного бронирования
type BookingDetailListResponse struct {
	BookingID int64                   `json:"bookingId"`
	Details   []BookingDetailResponse `json:"details"`
}

// TotalAmountResponse сумма по бронированию
type TotalAmountResponse struct {
	BookingID   int64   `json:"bookingId"`
	TotalAmount float64 `json:"totalAmount"`
}

// FromDomainBookingDetail конвертирует доменную запись в ответ
func FromDomainBookingDetail(detail *domain.BookingDetail) *BookingDetailResponse {
	return &BookingDetailResponse{
		ID:            detail.ID,
		BookingID:     detail.BookingID,
		TestServiceID: detail.TestServiceID,
		SlotID:        detail.SlotID,
		FirstName:     detail.Patient.FirstName,
		LastName:      detail.Patient.LastName,
		DateOfBirth:   detail.Patient.DateOfBirth.Format(domain.DateFormat),
		Phone:         detail.Patient.Phone,
		Gender:        string(detail.Patient.Gender),
		Status:        string(detail.Status),
		CreatedAt:     detail.CreatedAt,
		UpdatedAt:     detail.UpdatedAt,
	}
}

// FromDomainBookingDetailList конвертирует список записей в ответ
func FromDomainBookingDetailList(bookingID int64, details []*domain.BookingDetail) *BookingDetailListResponse {
	items := make([]BookingDetailResponse, len(details))
	for i, detail := range details {
		items[i] = *FromDomainBookingDetail(detail)
	}
	return &BookingDetailListResponse{
		BookingID: bookingID,
		Details:   items,
	}
}
