package models

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	detailModels "github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentResponse платёж бронирования
type PaymentResponse struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingAggregateResponse бронирование с записями и платежом
type BookingAggregateResponse struct {
	BookingResponse
	Details []detailModels.BookingDetailResponse `json:"details"`
	Payment *PaymentResponse                     `json:"payment,omitempty"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует доменное бронирование в ответ
func FromDomainBooking(booking *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        booking.ID,
		AccountID: booking.AccountID,
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}

// FromDomainAggregate конвертирует агрегат бронирования в ответ
func FromDomainAggregate(aggregate *domain.BookingAggregate) *BookingAggregateResponse {
	details := detailModels.FromDomainBookingDetailList(aggregate.Booking.ID, aggregate.Details)

	resp := &BookingAggregateResponse{
		BookingResponse: *FromDomainBooking(&aggregate.Booking),
		Details:         details.Details,
	}

	if aggregate.Payment != nil {
		resp.Payment = &PaymentResponse{
			ID:        aggregate.Payment.ID,
			Amount:    aggregate.Payment.Amount,
			Method:    aggregate.Payment.Method,
			Status:    string(aggregate.Payment.Status),
			CreatedAt: aggregate.Payment.CreatedAt,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список бронирований в ответ
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	items := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = *FromDomainBooking(booking)
	}
	return &BookingListResponse{Bookings: items}
}
