package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/pagination"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/sse"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/utils"
)

// Options carries the immutable attendance settings.
type Options struct {
	Location *time.Location
	Window   shift.Window

	CenterLatitude  float64
	CenterLongitude float64
	RadiusKm        float64

	// EnforceShiftWindow rejects check-in/out outside the active shift's grace windows.
	EnforceShiftWindow bool
	// EnforceGeofence rejects check-in/out from locations outside RadiusKm.
	EnforceGeofence bool

	// Hub receives committed changes for the live feed. Nil disables it.
	Hub *sse.Hub

	// Now defaults to time.Now.
	Now func() time.Time
}

// Live feed event names.
const (
	EventCheckedIn   = "attendance.checked_in"
	EventCheckedOut  = "attendance.checked_out"
	EventForceClosed = "attendance.force_closed"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	shiftRepo shift.ShiftRepository
	userRepo  user.UserRepository
	tx        database.Transactor
	opts      Options
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	shiftRepo shift.ShiftRepository,
	userRepo user.UserRepository,
	opts Options,
) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		shiftRepo:            shiftRepo,
		userRepo:             userRepo,
		tx:                   tx,
		opts:                 opts,
	}
}

func (s *AttendanceServiceImpl) publish(name string, rec attendance.AttendanceResponse) {
	if s.opts.Hub == nil {
		return
	}
	s.opts.Hub.Publish(sse.Event{Event: name, Data: rec}, sse.UserTopic(rec.UserID), sse.TopicManagers)
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// authenticate resolves the caller. Unknown ids are treated as missing credentials.
func (s *AttendanceServiceImpl) authenticate(ctx context.Context, userID string) (user.User, error) {
	if userID == "" {
		return user.User{}, attendance.ErrNotAuthenticated
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, attendance.ErrNotAuthenticated
		}
		return user.User{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	return u, nil
}

func (s *AttendanceServiceImpl) checkGeofence(location string) error {
	if !s.opts.EnforceGeofence {
		return nil
	}
	lat, lon, err := utils.ParseCoordinate(location)
	if err != nil {
		return attendance.ErrOutsideGeofence
	}
	if !utils.IsWithinRadius(s.opts.CenterLongitude, s.opts.CenterLatitude, lon, lat, s.opts.RadiusKm) {
		return attendance.ErrOutsideGeofence
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.authenticate(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.checkGeofence(req.Location); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := attendance.StartOfDay(now, s.opts.Location)

	shifts, err := s.shiftRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load user shifts: %w", err)
	}
	active := s.opts.Window.FindActive(now, shifts)
	if s.opts.EnforceShiftWindow && (active == nil || !s.opts.Window.CanCheckIn(*active, now)) {
		return attendance.AttendanceResponse{}, shift.ErrOutsideShiftWindow
	}

	var (
		created     attendance.Attendance
		forceClosed []attendance.Attendance
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LockUser(ctx, u.ID); err != nil {
			return err
		}

		stale, err := s.ListStaleOpen(ctx, u.ID, today)
		if err != nil {
			return err
		}
		if len(stale) > 0 {
			for _, rec := range stale {
				closed, err := s.forceClose(ctx, rec)
				if err != nil {
					return err
				}
				forceClosed = append(forceClosed, closed)
			}
			// Commit the closures; the check-in itself is rejected below.
			return nil
		}

		open, err := s.GetOpenOnDate(ctx, u.ID, today)
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrConflictOpenAttendance
		}

		rec := attendance.Attendance{
			UserID:          u.ID,
			Date:            today,
			ClockIn:         now,
			CheckInLocation: req.Location,
			Note:            req.Note,
		}
		if active != nil {
			rec.ShiftID = &active.ID
			rec.ShiftName = &active.Name
		}
		if req.Kehadiran != nil {
			k := attendance.Kehadiran(*req.Kehadiran)
			rec.Kehadiran = &k
		}

		created, err = s.Create(ctx, rec)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrConflictOpenAttendance) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	if len(forceClosed) > 0 {
		for _, rec := range forceClosed {
			slog.Info("Force-closed stale attendance on check-in", "attendance_id", rec.ID, "user_id", u.ID, "date", attendance.DateKey(rec.Date))
			s.publish(EventForceClosed, mapAttendanceToResponse(rec, s.opts.Location))
		}
		return attendance.AttendanceResponse{}, attendance.ErrStaleAttendanceForceClosed
	}

	created.UserName = &u.Name
	if active != nil {
		created.ShiftName = &active.Name
	}
	resp := mapAttendanceToResponse(created, s.opts.Location)
	s.publish(EventCheckedIn, resp)
	return resp, nil
}

// forceClose closes a record that stayed open past its day. Check-out time
// and location are copied from the check-in so the record stays within its date.
func (s *AttendanceServiceImpl) forceClose(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	note := attendance.ForcedCloseNote
	return s.Close(ctx, rec.ID, rec.ClockIn, rec.CheckInLocation, &note)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.authenticate(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.checkGeofence(req.Location); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Managers may close any user's record.
	var owner *string
	if !u.Can(user.PermissionAttendanceManage) {
		owner = &u.ID
	}

	now := s.now()

	var updated attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.GetOpenByID(ctx, req.ID, owner)
		if err != nil {
			return err
		}

		if s.opts.EnforceShiftWindow {
			if err := s.checkOutWindow(ctx, rec, now); err != nil {
				return err
			}
		}

		clockOut := now
		if clockOut.Before(rec.ClockIn) {
			clockOut = rec.ClockIn
		}

		updated, err = s.Close(ctx, rec.ID, clockOut, req.Location, nil)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) || errors.Is(err, shift.ErrOutsideShiftWindow) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	resp := mapAttendanceToResponse(updated, s.opts.Location)
	s.publish(EventCheckedOut, resp)
	return resp, nil
}

func (s *AttendanceServiceImpl) checkOutWindow(ctx context.Context, rec attendance.Attendance, now time.Time) error {
	if rec.ShiftID == nil {
		return shift.ErrOutsideShiftWindow
	}
	sh, err := s.shiftRepo.GetByID(ctx, *rec.ShiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrOutsideShiftWindow
		}
		return err
	}
	if !s.opts.Window.CanCheckOut(sh, now, false) {
		return shift.ErrOutsideShiftWindow
	}
	return nil
}

// Eligibility implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Eligibility(ctx context.Context, userID string) (attendance.EligibilityResponse, error) {
	u, err := s.authenticate(ctx, userID)
	if err != nil {
		return attendance.EligibilityResponse{}, err
	}

	now := s.now()
	resp := attendance.EligibilityResponse{Now: now.Format(time.RFC3339)}

	shifts, err := s.shiftRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return attendance.EligibilityResponse{}, fmt.Errorf("failed to load user shifts: %w", err)
	}

	active := s.opts.Window.FindActive(now, shifts)
	if active == nil {
		return resp, nil
	}

	start, end := s.opts.Window.Bounds(*active, now)
	latest, err := s.LatestForShift(ctx, u.ID, active.ID, attendance.StartOfDay(start, s.opts.Location))
	if err != nil {
		return attendance.EligibilityResponse{}, fmt.Errorf("failed to load shift attendance: %w", err)
	}
	checkedOut := latest != nil && !latest.IsOpen()

	sr := shift.ToResponse(*active)
	windowStart := start.Add(-s.opts.Window.Early).Format(time.RFC3339)
	windowEnd := end.Add(s.opts.Window.Late).Format(time.RFC3339)

	resp.Shift = &sr
	resp.CanCheckIn = s.opts.Window.CanCheckIn(*active, now)
	resp.CanCheckOut = s.opts.Window.CanCheckOut(*active, now, checkedOut)
	resp.WindowStart = &windowStart
	resp.WindowEnd = &windowEnd
	return resp, nil
}

// CheckLocation implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckLocation(ctx context.Context, req attendance.CheckLocationRequest) (attendance.CheckLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckLocationResponse{}, err
	}

	distance := utils.HaversineKm(s.opts.CenterLongitude, s.opts.CenterLatitude, req.Longitude, req.Latitude)
	return attendance.CheckLocationResponse{
		DistanceKm:   distance,
		RadiusKm:     s.opts.RadiusKm,
		WithinRadius: distance <= s.opts.RadiusKm,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string, userID string) (attendance.AttendanceResponse, error) {
	u, err := s.authenticate(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if rec.UserID != u.ID && !u.Can(user.PermissionAttendanceManage) {
		return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
	}

	return mapAttendanceToResponse(rec, s.opts.Location), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.ListAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, userID string, filter attendance.ListAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	u, err := s.authenticate(ctx, userID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.UserID = &u.ID
	filter.UserName = nil
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.ListAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	results := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		results = append(results, mapAttendanceToResponse(rec, s.opts.Location))
	}

	return attendance.ListAttendanceResponse{
		Count:     total,
		PageCount: pagination.TotalPages(total, filter.PageSize),
		PageSize:  filter.PageSize,
		Page:      filter.Page,
		Results:   results,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	return s.Delete(ctx, id)
}

// CloseStaleAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseStaleAttendances(ctx context.Context) (int, error) {
	today := attendance.StartOfDay(s.now(), s.opts.Location)

	stale, err := s.ListAllStaleOpen(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale attendances: %w", err)
	}

	closed := 0
	for _, rec := range stale {
		var updated attendance.Attendance
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.LockUser(ctx, rec.UserID); err != nil {
				return err
			}
			var err error
			updated, err = s.forceClose(ctx, rec)
			return err
		})
		if err != nil {
			// Closed concurrently by a check-in or check-out.
			if errors.Is(err, attendance.ErrRecordNotFound) {
				continue
			}
			return closed, fmt.Errorf("failed to close stale attendance %s: %w", rec.ID, err)
		}
		slog.Info("Force-closed stale attendance", "attendance_id", rec.ID, "user_id", rec.UserID, "date", attendance.DateKey(rec.Date))
		s.publish(EventForceClosed, mapAttendanceToResponse(updated, s.opts.Location))
		closed++
	}
	return closed, nil
}

// mapAttendanceToResponse converts a record to the API shape, rendering times in loc.
func mapAttendanceToResponse(a attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		UserName:         a.UserName,
		ShiftID:          a.ShiftID,
		ShiftName:        a.ShiftName,
		Date:             attendance.DateKey(a.Date),
		CheckInTime:      a.ClockIn.In(loc).Format("15:04:05"),
		CheckInLocation:  a.CheckInLocation,
		CheckOutLocation: a.CheckOutLocation,
		Note:             a.Note,
		CreatedAt:        a.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
		UpdatedAt:        a.UpdatedAt.In(loc).Format("2006-01-02 15:04:05"),
	}
	if a.Kehadiran != nil {
		k := string(*a.Kehadiran)
		resp.Kehadiran = &k
	}
	if a.ClockOut != nil {
		out := a.ClockOut.In(loc).Format("15:04:05")
		resp.CheckOutTime = &out
	}
	return resp
}
