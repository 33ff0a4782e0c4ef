package http

import (
	"time"

	"freight/internal/core/application/session"
	"freight/internal/core/application/usecases/queries"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RegisterDriverRequest struct {
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	VehicleType   string  `json:"vehicle_type" validate:"required"`
	VehicleNumber string  `json:"vehicle_number" validate:"required"`
	CapacityTons  float64 `json:"capacity_tons" validate:"gt=0"`
}

// ChangeStatusRequest never accepts busy; only accepting a load makes a driver busy.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available resting offline"`
}

// CompleteDeliveryRequest carries the optional delivery key. Clients that
// send it can safely retry a completion whose response was lost.
type CompleteDeliveryRequest struct {
	CargoID string `json:"cargo_id" validate:"omitempty,uuid"`
}

type CreateCargoRequest struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	Number      string    `json:"number" validate:"required"`
	Type        string    `json:"type"`
	WeightTons  float64   `json:"weight_tons" validate:"gt=0"`
	Origin      string    `json:"origin" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Urgency     string    `json:"urgency" validate:"required,oneof=normal urgent express"`
	Fare        int64     `json:"fare" validate:"gte=0"`
	PickupAt    time.Time `json:"pickup_at" validate:"required"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type CargoResponse struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Type        string     `json:"type,omitempty"`
	WeightTons  float64    `json:"weight_tons"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Urgency     string     `json:"urgency"`
	Fare        int64      `json:"fare"`
	Status      string     `json:"status"`
	DriverID    *string    `json:"driver_id,omitempty"`
	PickupAt    time.Time  `json:"pickup_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type DriverResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	VehicleType      string  `json:"vehicle_type"`
	VehicleNumber    string  `json:"vehicle_number"`
	CapacityTons     float64 `json:"capacity_tons"`
	Status           string  `json:"status"`
	ActiveDeliveryID *string `json:"active_delivery_id,omitempty"`
	TotalDeliveries  int64   `json:"total_deliveries"`
	TotalEarnings    int64   `json:"total_earnings"`
}

type SnapshotResponse struct {
	Driver         DriverResponse  `json:"driver"`
	ActiveDelivery *CargoResponse  `json:"active_delivery"`
	VisibleCargos  []CargoResponse `json:"visible_cargos"`
	RefreshedAt    time.Time       `json:"refreshed_at"`
}

func toCargoResponse(m queries.CargoReadModel) CargoResponse {
	r := CargoResponse{
		ID:          m.ID.String(),
		Number:      m.Number,
		Type:        m.Type,
		WeightTons:  m.Weight.Tons(),
		Origin:      m.Origin,
		Destination: m.Destination,
		Urgency:     m.Urgency.String(),
		Fare:        m.Fare.Amount(),
		Status:      m.Status.String(),
		PickupAt:    m.PickupAt,
		DeliveredAt: m.DeliveredAt,
	}
	if m.DriverID != nil {
		id := m.DriverID.String()
		r.DriverID = &id
	}
	return r
}

func toCargoResponses(models []queries.CargoReadModel) []CargoResponse {
	out := make([]CargoResponse, len(models))
	for i, m := range models {
		out[i] = toCargoResponse(m)
	}
	return out
}

func toDriverResponse(m queries.DriverReadModel) DriverResponse {
	r := DriverResponse{
		ID:              m.ID.String(),
		Name:            m.Profile.Name,
		Phone:           m.Profile.Phone,
		VehicleType:     m.Profile.VehicleType,
		VehicleNumber:   m.Profile.VehicleNumber,
		CapacityTons:    m.Capacity.Tons(),
		Status:          m.Status.String(),
		TotalDeliveries: m.Totals.Deliveries,
		TotalEarnings:   m.Totals.Earnings.Amount(),
	}
	if m.ActiveDelivery != nil {
		id := m.ActiveDelivery.String()
		r.ActiveDeliveryID = &id
	}
	return r
}

func toSnapshotResponse(s session.Snapshot) SnapshotResponse {
	r := SnapshotResponse{
		Driver:        toDriverResponse(s.Driver),
		VisibleCargos: toCargoResponses(s.Visible),
		RefreshedAt:   s.RefreshedAt,
	}
	if s.Active != nil {
		active := toCargoResponse(*s.Active)
		r.ActiveDelivery = &active
	}
	return r
}
