package interfaces

import (
	"context"

	"tourify/internal/models"
)

type StaffRepository interface {
	GetMember(ctx context.Context, staffID string) (*models.StaffMember, error)

	// ShiftsBetween returns the staff member's shifts with from <= shift_date <= to.
	ShiftsBetween(ctx context.Context, staffID, from, to string) ([]models.Shift, error)
	CreateShift(ctx context.Context, shift *models.Shift) error
	ListShifts(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, error)
	GetShift(ctx context.Context, id string) (*models.Shift, error)
	DeleteShift(ctx context.Context, id string) error

	GetAvailability(ctx context.Context, staffID, venueID, weekStart string) (*models.StaffAvailability, error)
	ListAvailability(ctx context.Context, filter models.AvailabilityFilter) ([]*models.StaffAvailability, error)
	UpsertAvailability(ctx context.Context, availability *models.StaffAvailability) error

	CreateTimeOff(ctx context.Context, req *models.TimeOffRequest) error
	GetTimeOff(ctx context.Context, id string) (*models.TimeOffRequest, error)
	ListTimeOff(ctx context.Context, filter models.TimeOffFilter) ([]*models.TimeOffRequest, error)
	// DecideTimeOff only transitions pending rows; it returns sql.ErrNoRows otherwise.
	DecideTimeOff(ctx context.Context, id string, status models.TimeOffStatus, decidedBy string) (*models.TimeOffRequest, error)
	ApprovedTimeOffOn(ctx context.Context, staffID, date string) (bool, error)
}
