package shift

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	userRepo user.UserRepository
	tx       database.Transactor
}

func NewShiftService(tx database.Transactor, shiftRepo shift.ShiftRepository, userRepo user.UserRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepo,
		userRepo:        userRepo,
		tx:              tx,
	}
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	start, err := shift.ParseClock(req.StartTime)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	end, err := shift.ParseClock(req.EndTime)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		Name:      strings.TrimSpace(req.Name),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	slog.Info("Shift created", "shift_id", created.ID, "name", created.Name)
	return shift.ToResponse(created), nil
}

// GetByID implements shift.ShiftService.
func (s *ShiftServiceImpl) GetByID(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	resp := shift.ToResponse(sh)
	resp.UserIDs, err = s.ListUserIDs(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return resp, nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(shifts), nil
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	var updated shift.Shift
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			sh.Name = strings.TrimSpace(*req.Name)
		}
		if req.StartTime != nil {
			if sh.StartTime, err = shift.ParseClock(*req.StartTime); err != nil {
				return err
			}
		}
		if req.EndTime != nil {
			if sh.EndTime, err = shift.ParseClock(*req.EndTime); err != nil {
				return err
			}
		}

		if err := s.ShiftRepository.Update(ctx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return shift.ToResponse(updated), nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.ShiftRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Shift deleted", "shift_id", id)
	return nil
}

// AssignUsers implements shift.ShiftService.
func (s *ShiftServiceImpl) AssignUsers(ctx context.Context, req shift.AssignUsersRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	ids := dedupe(req.UserIDs)

	var resp shift.ShiftResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.GetByID(ctx, req.ShiftID)
		if err != nil {
			return err
		}

		n, err := s.userRepo.CountByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if n != len(ids) {
			return shift.ErrUserNotFound
		}

		if err := s.ReplaceUsers(ctx, sh.ID, ids); err != nil {
			return err
		}

		resp = shift.ToResponse(sh)
		resp.UserIDs = ids
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	slog.Info("Shift users assigned", "shift_id", req.ShiftID, "count", len(ids))
	return resp, nil
}

// MyShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) MyShifts(ctx context.Context, userID string) ([]shift.ShiftResponse, error) {
	shifts, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user shifts: %w", err)
	}
	return toResponses(shifts), nil
}

func toResponses(shifts []shift.Shift) []shift.ShiftResponse {
	out := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, shift.ToResponse(sh))
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
