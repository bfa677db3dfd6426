package http

import (
	"net/http"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/dashboard"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Count(w http.ResponseWriter, r *http.Request)
	Volume(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	loc              *time.Location
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, loc *time.Location) DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		loc:              loc,
		now:              time.Now,
	}
}

// rangeRequest reads start_date/end_date, defaulting to the current month up
// to today. Callers without dashboard.all only ever see their own records.
func (h *dashboardHandlerImpl) rangeRequest(w http.ResponseWriter, r *http.Request) (dashboard.RangeRequest, bool) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return dashboard.RangeRequest{}, false
	}

	today := h.now().In(h.loc)
	req := dashboard.RangeRequest{
		StartDate: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, h.loc).Format("2006-01-02"),
		EndDate:   today.Format("2006-01-02"),
	}
	if v := queryString(r, "start_date"); v != nil {
		req.StartDate = *v
	}
	if v := queryString(r, "end_date"); v != nil {
		req.EndDate = *v
	}

	if user.HasPermission(claims.Role, user.PermissionDashboardAll) {
		req.UserID = queryString(r, "user_id")
	} else {
		uid := claims.UserID
		req.UserID = &uid
	}
	return req, true
}

func (h *dashboardHandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	req, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Count(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *dashboardHandlerImpl) Volume(w http.ResponseWriter, r *http.Request) {
	req, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Volume(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
