package create_slot

import (
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
)

// CreateSlotRequest HTTP запрос на создание слота
type CreateSlotRequest struct {
	TestServiceID int64  `json:"testServiceId"`
	SlotDate      string `json:"slotDate"` // Формат: YYYY-MM-DD
	Shift         string `json:"shift"`
	MaxQuantity   int    `json:"maxQuantity"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.SlotDate)
	if err != nil {
		return nil, err
	}
	return &models.CreateSlotRequest{
		TestServiceID: r.TestServiceID,
		SlotDate:      date,
		Shift:         r.Shift,
		MaxQuantity:   r.MaxQuantity,
	}, nil
}
