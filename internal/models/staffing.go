package models

import (
	"database/sql/driver"
	"time"
)

type StaffMember struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	UserID    *string   `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Shift times are "HH:MM" wall-clock strings on ShiftDate ("YYYY-MM-DD").
type Shift struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	StaffID   string    `json:"staff_id"`
	ShiftDate string    `json:"shift_date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Role      string    `json:"role"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateShiftRequest struct {
	VenueID   string `json:"venue_id" validate:"required,uuid"`
	StaffID   string `json:"staff_id" validate:"required,uuid"`
	ShiftDate string `json:"shift_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Role      string `json:"role" validate:"max=100"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type ShiftFilter struct {
	VenueID  string
	StaffID  string
	FromDate string
	ToDate   string
}

type AvailabilitySlot struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilitySlots []AvailabilitySlot

func (s AvailabilitySlots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonbValue(s)
}
func (s *AvailabilitySlots) Scan(src any) error { return jsonbScan(src, s) }

type StaffAvailability struct {
	ID            string            `json:"id"`
	StaffID       string            `json:"staff_id"`
	VenueID       string            `json:"venue_id"`
	WeekStartDate string            `json:"week_start_date"`
	Slots         AvailabilitySlots `json:"slots"`
	Notes         string            `json:"notes"`
	UpdatedBy     string            `json:"updated_by"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type UpdateAvailabilityRequest struct {
	StaffID       string             `json:"staff_id" validate:"required,uuid"`
	VenueID       string             `json:"venue_id" validate:"required,uuid"`
	WeekStartDate string             `json:"week_start_date" validate:"required,datetime=2006-01-02"`
	Slots         []AvailabilitySlot `json:"slots" validate:"required,max=100,dive"`
	Notes         string             `json:"notes" validate:"max=2000"`
}

type AvailabilityFilter struct {
	StaffID   string
	VenueID   string
	WeekStart string
}

// AvailabilityConflict pairs a proposed slot with the shift it collides with.
type AvailabilityConflict struct {
	Date  string           `json:"date"`
	Slot  AvailabilitySlot `json:"slot"`
	Shift Shift            `json:"shift"`
}

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

type TimeOffRequest struct {
	ID          string        `json:"id"`
	StaffID     string        `json:"staff_id"`
	VenueID     string        `json:"venue_id"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	RequestType string        `json:"request_type"`
	Reason      string        `json:"reason"`
	Status      TimeOffStatus `json:"status"`
	RequestedBy string        `json:"requested_by"`
	DecidedBy   *string       `json:"decided_by"`
	DecidedAt   *time.Time    `json:"decided_at"`
	CreatedAt   time.Time     `json:"created_at"`
}

type CreateTimeOffRequest struct {
	StaffID     string `json:"staff_id" validate:"required,uuid"`
	VenueID     string `json:"venue_id" validate:"required,uuid"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	RequestType string `json:"request_type" validate:"omitempty,oneof=vacation sick personal other"`
	Reason      string `json:"reason" validate:"max=2000"`
}

type TimeOffDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved denied"`
}

type TimeOffFilter struct {
	VenueID string
	StaffID string
	Status  string
}
