package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"tourify/internal/apperr"
	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const dateLayout = "2006-01-02"

type StaffingService struct {
	gate     PermissionGate
	staff    interfaces.StaffRepository
	activity ActivityRecorder
}

func NewStaffingService(gate PermissionGate, staff interfaces.StaffRepository, activity ActivityRecorder) *StaffingService {
	return &StaffingService{gate: gate, staff: staff, activity: recorderOrNoop(activity)}
}

// clockMinutes parses "HH:MM" into minutes after midnight.
func clockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindConflicts pairs every proposed slot with each shift on the slot's
// calendar date (weekStart + day_of_week) whose time range overlaps it.
// Touching ranges do not conflict. Shifts with unparseable times are skipped.
func FindConflicts(weekStart time.Time, slots []models.AvailabilitySlot, shifts []models.Shift) []models.AvailabilityConflict {
	byDate := make(map[string][]models.Shift)
	for _, sh := range shifts {
		byDate[sh.ShiftDate] = append(byDate[sh.ShiftDate], sh)
	}

	conflicts := []models.AvailabilityConflict{}
	for _, slot := range slots {
		start, err1 := clockMinutes(slot.StartTime)
		end, err2 := clockMinutes(slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		date := weekStart.AddDate(0, 0, slot.DayOfWeek).Format(dateLayout)
		for _, sh := range byDate[date] {
			shStart, err1 := clockMinutes(sh.StartTime)
			shEnd, err2 := clockMinutes(sh.EndTime)
			if err1 != nil || err2 != nil {
				log.Printf("[staffing] skipping shift %s with invalid times %q-%q", sh.ID, sh.StartTime, sh.EndTime)
				continue
			}
			if overlaps(start, end, shStart, shEnd) {
				conflicts = append(conflicts, models.AvailabilityConflict{Date: date, Slot: slot, Shift: sh})
			}
		}
	}
	return conflicts
}

// CanTransition reports whether a time-off request may move from one status
// to another. Only pending requests can be decided.
func CanTransition(from, to models.TimeOffStatus) bool {
	return from == models.TimeOffPending && (to == models.TimeOffApproved || to == models.TimeOffDenied)
}

// validateSlots returns one field error per slot whose end is not after its start.
func validateSlots(slots []models.AvailabilitySlot) []apperr.FieldError {
	var details []apperr.FieldError
	for i, slot := range slots {
		start, err1 := clockMinutes(slot.StartTime)
		end, err2 := clockMinutes(slot.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			details = append(details, apperr.FieldError{
				Field:   fmt.Sprintf("slots[%d].end_time", i),
				Tag:     "gtfield",
				Message: "end_time must be after start_time",
			})
		}
	}
	return details
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("validation_error", "Invalid date",
			apperr.FieldError{Field: field, Tag: "datetime", Message: field + " must be YYYY-MM-DD"})
	}
	return t, nil
}

type dateField struct{ name, value string }

// validateDates checks optional date filters and reports every bad one.
func validateDates(fields ...dateField) error {
	var details []apperr.FieldError
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, f.value); err != nil {
			details = append(details, apperr.FieldError{Field: f.name, Tag: "datetime", Message: f.name + " must be YYYY-MM-DD"})
		}
	}
	if len(details) > 0 {
		return apperr.Validation("validation_error", "Invalid date", details...)
	}
	return nil
}

// memberOfVenue loads the staff member and treats a venue mismatch as not found.
func (s *StaffingService) memberOfVenue(ctx context.Context, staffID, venueID string) (*models.StaffMember, error) {
	m, err := s.staff.GetMember(ctx, staffID)
	if err != nil {
		return nil, notFoundOr(err, "staff_member", "load staff member")
	}
	if venueID != "" && m.VenueID != venueID {
		return nil, apperr.NotFound("staff_member")
	}
	return m, nil
}

// authorizeSelfOr lets a staff member act on their own records; anyone else
// needs perm on the venue.
func (s *StaffingService) authorizeSelfOr(ctx context.Context, actorID string, m *models.StaffMember, perm models.Permission) error {
	if m.UserID != nil && *m.UserID == actorID {
		return nil
	}
	return authorize(ctx, s.gate, actorID, models.EntityVenue, m.VenueID, perm)
}

func (s *StaffingService) record(actorID, action, entityType, entityID, venueID string, before, after any) {
	s.activity.Record(newActivity(actorID, action, entityType, entityID, string(models.EntityVenue), venueID, before, after))
}

// Availability

func (s *StaffingService) CheckAvailabilityConflicts(ctx context.Context, staffID, weekStartDate string, slots []models.AvailabilitySlot) ([]models.AvailabilityConflict, error) {
	weekStart, err := parseDate("week_start_date", weekStartDate)
	if err != nil {
		return nil, err
	}
	shifts, err := s.staff.ShiftsBetween(ctx, staffID, weekStartDate, weekStart.AddDate(0, 0, 6).Format(dateLayout))
	if err != nil {
		return nil, apperr.Dependency("load shifts", err)
	}
	return FindConflicts(weekStart, slots, shifts), nil
}

// PreviewAvailability runs the conflict check without writing anything.
func (s *StaffingService) PreviewAvailability(ctx context.Context, actorID string, req *models.UpdateAvailabilityRequest) ([]models.AvailabilityConflict, error) {
	m, err := s.memberOfVenue(ctx, req.StaffID, req.VenueID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionRead); err != nil {
		return nil, err
	}
	return s.CheckAvailabilityConflicts(ctx, req.StaffID, req.WeekStartDate, req.Slots)
}

func (s *StaffingService) UpdateStaffAvailability(ctx context.Context, actorID string, req *models.UpdateAvailabilityRequest) (*models.StaffAvailability, error) {
	if details := validateSlots(req.Slots); len(details) > 0 {
		return nil, apperr.Validation("validation_error", "Invalid availability slots", details...)
	}
	if _, err := parseDate("week_start_date", req.WeekStartDate); err != nil {
		return nil, err
	}

	m, err := s.memberOfVenue(ctx, req.StaffID, req.VenueID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionWrite); err != nil {
		return nil, err
	}

	conflicts, err := s.CheckAvailabilityConflicts(ctx, req.StaffID, req.WeekStartDate, req.Slots)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperr.Conflict("availability_conflict", "Availability conflicts with scheduled shifts").WithConflicts(conflicts)
	}

	a := &models.StaffAvailability{
		ID:            uuid.NewString(),
		StaffID:       req.StaffID,
		VenueID:       req.VenueID,
		WeekStartDate: req.WeekStartDate,
		Slots:         models.AvailabilitySlots(req.Slots),
		Notes:         req.Notes,
		UpdatedBy:     actorID,
	}
	if err := s.staff.UpsertAvailability(ctx, a); err != nil {
		return nil, apperr.Dependency("update availability", err)
	}

	s.record(actorID, "update", "staff_availability", a.ID, a.VenueID, nil, a)
	return a, nil
}

// GetAvailabilityWeek returns one staff member's record for a week.
func (s *StaffingService) GetAvailabilityWeek(ctx context.Context, actorID, staffID, weekStart string) (*models.StaffAvailability, error) {
	if _, err := parseDate("week_start", weekStart); err != nil {
		return nil, err
	}
	m, err := s.memberOfVenue(ctx, staffID, "")
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionRead); err != nil {
		return nil, err
	}
	a, err := s.staff.GetAvailability(ctx, staffID, m.VenueID, weekStart)
	if err != nil {
		return nil, notFoundOr(err, "availability", "load availability")
	}
	return a, nil
}

// ListAvailability returns a staff member's history when StaffID is set,
// otherwise every record for the venue.
func (s *StaffingService) ListAvailability(ctx context.Context, actorID string, filter models.AvailabilityFilter) ([]*models.StaffAvailability, error) {
	if err := validateDates(dateField{"week_start", filter.WeekStart}); err != nil {
		return nil, err
	}
	switch {
	case filter.StaffID != "":
		m, err := s.memberOfVenue(ctx, filter.StaffID, filter.VenueID)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionRead); err != nil {
			return nil, err
		}
	case filter.VenueID != "":
		if err := authorize(ctx, s.gate, actorID, models.EntityVenue, filter.VenueID, models.PermissionRead); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.Validation("validation_error", "staff_id or venue_id is required",
			apperr.FieldError{Field: "venue_id", Tag: "required_without", Message: "staff_id or venue_id is required"})
	}

	items, err := s.staff.ListAvailability(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list availability", err)
	}
	return items, nil
}

// Shifts

func (s *StaffingService) CreateShift(ctx context.Context, actorID string, req *models.CreateShiftRequest) (*models.Shift, error) {
	start, err1 := clockMinutes(req.StartTime)
	end, err2 := clockMinutes(req.EndTime)
	if err1 != nil || err2 != nil || end <= start {
		return nil, apperr.Validation("validation_error", "Invalid shift times",
			apperr.FieldError{Field: "end_time", Tag: "gtfield", Message: "end_time must be after start_time"})
	}

	m, err := s.memberOfVenue(ctx, req.StaffID, req.VenueID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.gate, actorID, models.EntityVenue, m.VenueID, models.PermissionWrite); err != nil {
		return nil, err
	}

	off, err := s.staff.ApprovedTimeOffOn(ctx, req.StaffID, req.ShiftDate)
	if err != nil {
		return nil, apperr.Dependency("check time off", err)
	}
	if off {
		return nil, apperr.Conflict("staff_on_time_off", "Staff member has approved time off on this date")
	}

	existing, err := s.staff.ShiftsBetween(ctx, req.StaffID, req.ShiftDate, req.ShiftDate)
	if err != nil {
		return nil, apperr.Dependency("load shifts", err)
	}
	var clashing []models.Shift
	for _, sh := range existing {
		shStart, err1 := clockMinutes(sh.StartTime)
		shEnd, err2 := clockMinutes(sh.EndTime)
		if err1 == nil && err2 == nil && overlaps(start, end, shStart, shEnd) {
			clashing = append(clashing, sh)
		}
	}
	if len(clashing) > 0 {
		return nil, apperr.Conflict("shift_conflict", "Shift overlaps an existing shift").WithConflicts(clashing)
	}

	sh := &models.Shift{
		ID:        uuid.NewString(),
		VenueID:   m.VenueID,
		StaffID:   req.StaffID,
		ShiftDate: req.ShiftDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Role:      req.Role,
		Notes:     req.Notes,
		CreatedBy: actorID,
	}
	if err := s.staff.CreateShift(ctx, sh); err != nil {
		return nil, apperr.Dependency("create shift", err)
	}
	s.record(actorID, "create", "staff_shift", sh.ID, sh.VenueID, nil, sh)
	return sh, nil
}

func (s *StaffingService) ListShifts(ctx context.Context, actorID string, filter models.ShiftFilter) ([]models.Shift, error) {
	if err := validateDates(dateField{"from", filter.FromDate}, dateField{"to", filter.ToDate}); err != nil {
		return nil, err
	}
	switch {
	case filter.VenueID != "":
		if err := authorize(ctx, s.gate, actorID, models.EntityVenue, filter.VenueID, models.PermissionRead); err != nil {
			return nil, err
		}
	case filter.StaffID != "":
		m, err := s.memberOfVenue(ctx, filter.StaffID, "")
		if err != nil {
			return nil, err
		}
		if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionRead); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.Validation("validation_error", "staff_id or venue_id is required",
			apperr.FieldError{Field: "venue_id", Tag: "required_without", Message: "staff_id or venue_id is required"})
	}

	shifts, err := s.staff.ListShifts(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list shifts", err)
	}
	return shifts, nil
}

func (s *StaffingService) DeleteShift(ctx context.Context, actorID, id string) error {
	sh, err := s.staff.GetShift(ctx, id)
	if err != nil {
		return notFoundOr(err, "shift", "load shift")
	}
	if err := authorize(ctx, s.gate, actorID, models.EntityVenue, sh.VenueID, models.PermissionWrite); err != nil {
		return err
	}
	if err := s.staff.DeleteShift(ctx, id); err != nil {
		return notFoundOr(err, "shift", "delete shift")
	}
	s.record(actorID, "delete", "staff_shift", id, sh.VenueID, sh, nil)
	return nil
}

// Time off

func (s *StaffingService) CreateTimeOff(ctx context.Context, actorID string, req *models.CreateTimeOffRequest) (*models.TimeOffRequest, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("validation_error", "Invalid date range",
			apperr.FieldError{Field: "end_date", Tag: "gtefield", Message: "end_date must not be before start_date"})
	}

	m, err := s.memberOfVenue(ctx, req.StaffID, req.VenueID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionWrite); err != nil {
		return nil, err
	}

	shifts, err := s.staff.ShiftsBetween(ctx, req.StaffID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperr.Dependency("load shifts", err)
	}
	if len(shifts) > 0 {
		return nil, apperr.Conflict("time_off_conflict", "Staff member has shifts scheduled in this range").WithConflicts(shifts)
	}

	t := &models.TimeOffRequest{
		ID:          uuid.NewString(),
		StaffID:     req.StaffID,
		VenueID:     m.VenueID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		RequestType: req.RequestType,
		Reason:      req.Reason,
		Status:      models.TimeOffPending,
		RequestedBy: actorID,
	}
	if t.RequestType == "" {
		t.RequestType = "other"
	}
	if err := s.staff.CreateTimeOff(ctx, t); err != nil {
		return nil, apperr.Dependency("create time-off request", err)
	}
	s.record(actorID, "create", "time_off_request", t.ID, t.VenueID, nil, t)
	return t, nil
}

func (s *StaffingService) ListTimeOff(ctx context.Context, actorID string, filter models.TimeOffFilter) ([]*models.TimeOffRequest, error) {
	switch {
	case filter.VenueID != "":
		if err := authorize(ctx, s.gate, actorID, models.EntityVenue, filter.VenueID, models.PermissionRead); err != nil {
			return nil, err
		}
	case filter.StaffID != "":
		m, err := s.memberOfVenue(ctx, filter.StaffID, "")
		if err != nil {
			return nil, err
		}
		if err := s.authorizeSelfOr(ctx, actorID, m, models.PermissionRead); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.Validation("validation_error", "staff_id or venue_id is required",
			apperr.FieldError{Field: "venue_id", Tag: "required_without", Message: "staff_id or venue_id is required"})
	}

	items, err := s.staff.ListTimeOff(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list time-off requests", err)
	}
	return items, nil
}

func alreadyDecided() *apperr.Error {
	return apperr.Conflict("already_decided", "Time-off request already decided")
}

func (s *StaffingService) DecideTimeOff(ctx context.Context, actorID, id string, status models.TimeOffStatus) (*models.TimeOffRequest, error) {
	current, err := s.staff.GetTimeOff(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "time_off_request", "load time-off request")
	}
	if err := authorize(ctx, s.gate, actorID, models.EntityVenue, current.VenueID, models.PermissionWrite); err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, alreadyDecided()
	}

	decided, err := s.staff.DecideTimeOff(ctx, id, status, actorID)
	if err != nil {
		// Lost a race with another decision.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, alreadyDecided()
		}
		return nil, apperr.Dependency("decide time-off request", err)
	}
	s.record(actorID, string(status), "time_off_request", id, decided.VenueID, current, decided)
	return decided, nil
}
