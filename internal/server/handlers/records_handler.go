package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/service/records"
	"github.com/mamadbah2/outletdesk/internal/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordsHandler serves the saved-data viewer and exports.
type RecordsHandler struct {
	svc      *records.Service
	registry *session.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewRecordsHandler constructs the viewer handler.
func NewRecordsHandler(svc *records.Service, registry *session.Registry, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, registry: registry, logger: logger, now: time.Now}
}

// Show renders both saved stores, most recent first.
func (h *RecordsHandler) Show(c *gin.Context) {
	outlet := ""
	_ = h.registry.With(c.GetString(ContextSessionKey), func(st *session.State) error {
		outlet = st.Outlet
		return nil
	})

	c.HTML(http.StatusOK, "records.html", gin.H{
		"Title":     outlet + " Saved Data",
		"Snapshots": h.svc.LoadAll(c.Request.Context()),
	})
}

// ExportCSV downloads one store as CSV.
func (h *RecordsHandler) ExportCSV(c *gin.Context) {
	h.export(c, "csv", "text/csv; charset=utf-8", func(buf *bytes.Buffer, snap records.Snapshot) error {
		return records.WriteCSV(buf, snap.Table)
	})
}

// ExportXLSX downloads one store as an Excel workbook.
func (h *RecordsHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", xlsxContentType, func(buf *bytes.Buffer, snap records.Snapshot) error {
		return records.WriteXLSX(buf, string(snap.Kind), snap.Table)
	})
}

func (h *RecordsHandler) export(c *gin.Context, ext, contentType string, write func(*bytes.Buffer, records.Snapshot) error) {
	kind, err := records.ParseKind(c.Param("store"))
	if err != nil {
		c.String(http.StatusNotFound, "unknown store")
		return
	}

	snap := h.svc.Load(c.Request.Context(), kind)
	if snap.Err != nil {
		c.String(http.StatusBadGateway, "could not read saved records")
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, snap); err != nil {
		h.logger.Error("export failed", zap.String("store", string(kind)), zap.Error(err))
		c.String(http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", kind, h.now().Format("20060102_150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
