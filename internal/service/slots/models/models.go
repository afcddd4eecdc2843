package models

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// CreateSlotRequest запрос на ручное создание слота
type CreateSlotRequest struct {
	TestServiceID int64
	SlotDate      time.Time
	Shift         string
	MaxQuantity   int
}

// UpdateSlotRequest запрос на изменение вместимости слота
type UpdateSlotRequest struct {
	MaxQuantity int
}

// SlotResponse слот с вычисленной доступностью
type SlotResponse struct {
	ID              int64     `json:"id"`
	TestServiceID   int64     `json:"testServiceId"`
	SlotDate        string    `json:"slotDate"`
	Shift           string    `json:"shift"`
	MaxQuantity     int       `json:"maxQuantity"`
	CurrentQuantity int       `json:"currentQuantity"`
	Remaining       int       `json:"remaining"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse список слотов услуги на дату
type SlotListResponse struct {
	TestServiceID int64          `json:"testServiceId"`
	Date          string         `json:"date"`
	Slots         []SlotResponse `json:"slots"`
}

// AvailabilityResponse доступность одного слота
type AvailabilityResponse struct {
	SlotID      int64 `json:"slotId"`
	IsAvailable bool  `json:"isAvailable"`
	Remaining   int   `json:"remaining"`
}

// FromDomainSlot конвертирует доменный слот в ответ
func FromDomainSlot(slot *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:              slot.ID,
		TestServiceID:   slot.TestServiceID,
		SlotDate:        slot.SlotDate.Format(domain.DateFormat),
		Shift:           string(slot.Shift),
		MaxQuantity:     slot.MaxQuantity,
		CurrentQuantity: slot.CurrentQuantity,
		Remaining:       slot.Remaining(),
		IsAvailable:     slot.IsAvailable(),
		CreatedAt:       slot.CreatedAt,
		UpdatedAt:       slot.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список слотов в ответ
func FromDomainSlotList(testServiceID int64, date time.Time, slots []*domain.Slot) *SlotListResponse {
	items := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		items[i] = *FromDomainSlot(slot)
	}
	return &SlotListResponse{
		TestServiceID: testServiceID,
		Date:          date.Format(domain.DateFormat),
		Slots:         items,
	}
}
