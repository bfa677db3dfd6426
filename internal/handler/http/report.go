package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/absensi-app/attendance-backend-go/internal/domain/report"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ExportAttendance streams the attendance recap as an XLSX attachment.
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportAttendance(r.Context(), report.ExportAttendanceRequest{
		UserID:    queryString(r, "user_id"),
		UserName:  queryString(r, "user_name"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		slog.Warn("Failed to write report", "error", err)
	}
}
