package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const (
	shiftColumns = `id, venue_id, staff_id, to_char(shift_date, 'YYYY-MM-DD'), start_time, end_time, role, notes, created_by, created_at`

	availabilityColumns = `id, staff_id, venue_id, to_char(week_start_date, 'YYYY-MM-DD'), slots, notes, updated_by, created_at, updated_at`

	timeOffColumns = `id, staff_id, venue_id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		request_type, reason, status, requested_by, decided_by, decided_at, created_at`
)

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) interfaces.StaffRepository {
	return &staffRepository{db: db}
}

func scanShift(row rowScanner) (models.Shift, error) {
	var s models.Shift
	err := row.Scan(&s.ID, &s.VenueID, &s.StaffID, &s.ShiftDate, &s.StartTime, &s.EndTime, &s.Role, &s.Notes, &s.CreatedBy, &s.CreatedAt)
	return s, err
}

func scanAvailability(row rowScanner) (*models.StaffAvailability, error) {
	var a models.StaffAvailability
	if err := row.Scan(&a.ID, &a.StaffID, &a.VenueID, &a.WeekStartDate, &a.Slots, &a.Notes, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if a.Slots == nil {
		a.Slots = models.AvailabilitySlots{}
	}
	return &a, nil
}

func scanTimeOff(row rowScanner) (*models.TimeOffRequest, error) {
	var t models.TimeOffRequest
	if err := row.Scan(
		&t.ID, &t.StaffID, &t.VenueID, &t.StartDate, &t.EndDate,
		&t.RequestType, &t.Reason, &t.Status, &t.RequestedBy, &t.DecidedBy, &t.DecidedAt, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *staffRepository) GetMember(ctx context.Context, staffID string) (*models.StaffMember, error) {
	var m models.StaffMember
	err := r.db.QueryRowContext(ctx,
		`SELECT id, venue_id, user_id, name, role, active, created_at FROM staff_members WHERE id = $1`, staffID,
	).Scan(&m.ID, &m.VenueID, &m.UserID, &m.Name, &m.Role, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *staffRepository) ShiftsBetween(ctx context.Context, staffID, from, to string) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM staff_shifts
		WHERE staff_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date ASC, start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var out []models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *staffRepository) CreateShift(ctx context.Context, s *models.Shift) error {
	query := `
		INSERT INTO staff_shifts (id, venue_id, staff_id, shift_date, start_time, end_time, role, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.ID, s.VenueID, s.StaffID, s.ShiftDate, s.StartTime, s.EndTime, s.Role, s.Notes, s.CreatedBy,
	).Scan(&s.CreatedAt)
}

func (r *staffRepository) ListShifts(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM staff_shifts WHERE 1=1`

	var args []any
	var whereClauses []string
	argPos := 1

	if filter.VenueID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("venue_id = $%d", argPos))
		args = append(args, filter.VenueID)
		argPos++
	}
	if filter.StaffID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("staff_id = $%d", argPos))
		args = append(args, filter.StaffID)
		argPos++
	}
	if filter.FromDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("shift_date >= $%d", argPos))
		args = append(args, filter.FromDate)
		argPos++
	}
	if filter.ToDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("shift_date <= $%d", argPos))
		args = append(args, filter.ToDate)
		argPos++
	}
	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY shift_date ASC, start_time ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	out := []models.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *staffRepository) GetShift(ctx context.Context, id string) (*models.Shift, error) {
	s, err := scanShift(r.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM staff_shifts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) DeleteShift(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff_shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *staffRepository) GetAvailability(ctx context.Context, staffID, venueID, weekStart string) (*models.StaffAvailability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM staff_availability WHERE staff_id = $1 AND week_start_date = $2`
	args := []any{staffID, weekStart}
	if venueID != "" {
		query += ` AND venue_id = $3`
		args = append(args, venueID)
	}
	return scanAvailability(r.db.QueryRowContext(ctx, query, args...))
}

func (r *staffRepository) ListAvailability(ctx context.Context, filter models.AvailabilityFilter) ([]*models.StaffAvailability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM staff_availability WHERE 1=1`

	var args []any
	argPos := 1
	if filter.StaffID != "" {
		query += fmt.Sprintf(" AND staff_id = $%d", argPos)
		args = append(args, filter.StaffID)
		argPos++
	}
	if filter.VenueID != "" {
		query += fmt.Sprintf(" AND venue_id = $%d", argPos)
		args = append(args, filter.VenueID)
		argPos++
	}
	if filter.WeekStart != "" {
		query += fmt.Sprintf(" AND week_start_date = $%d", argPos)
		args = append(args, filter.WeekStart)
	}
	query += " ORDER BY week_start_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	out := []*models.StaffAvailability{}
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *staffRepository) UpsertAvailability(ctx context.Context, a *models.StaffAvailability) error {
	query := `
		INSERT INTO staff_availability (id, staff_id, venue_id, week_start_date, slots, notes, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (staff_id, venue_id, week_start_date)
		DO UPDATE SET slots = EXCLUDED.slots, notes = EXCLUDED.notes, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		a.ID, a.StaffID, a.VenueID, a.WeekStartDate, a.Slots, a.Notes, a.UpdatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *staffRepository) CreateTimeOff(ctx context.Context, t *models.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (id, staff_id, venue_id, start_date, end_date, request_type, reason, status, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.StaffID, t.VenueID, t.StartDate, t.EndDate, t.RequestType, t.Reason, t.Status, t.RequestedBy,
	).Scan(&t.CreatedAt)
}

func (r *staffRepository) GetTimeOff(ctx context.Context, id string) (*models.TimeOffRequest, error) {
	return scanTimeOff(r.db.QueryRowContext(ctx, `SELECT `+timeOffColumns+` FROM time_off_requests WHERE id = $1`, id))
}

func (r *staffRepository) ListTimeOff(ctx context.Context, filter models.TimeOffFilter) ([]*models.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests WHERE 1=1`

	var args []any
	argPos := 1
	if filter.VenueID != "" {
		query += fmt.Sprintf(" AND venue_id = $%d", argPos)
		args = append(args, filter.VenueID)
		argPos++
	}
	if filter.StaffID != "" {
		query += fmt.Sprintf(" AND staff_id = $%d", argPos)
		args = append(args, filter.StaffID)
		argPos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
	}
	query += " ORDER BY start_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	defer rows.Close()

	out := []*models.TimeOffRequest{}
	for rows.Next() {
		t, err := scanTimeOff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time off: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *staffRepository) DecideTimeOff(ctx context.Context, id string, status models.TimeOffStatus, decidedBy string) (*models.TimeOffRequest, error) {
	query := `
		UPDATE time_off_requests
		SET status = $1, decided_by = $2, decided_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + timeOffColumns
	return scanTimeOff(r.db.QueryRowContext(ctx, query, status, decidedBy, id))
}

func (r *staffRepository) ApprovedTimeOffOn(ctx context.Context, staffID, date string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM time_off_requests
		WHERE staff_id = $1 AND status = 'approved' AND $2::date BETWEEN start_date AND end_date
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, staffID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("check time off: %w", err)
	}
	return exists, nil
}
