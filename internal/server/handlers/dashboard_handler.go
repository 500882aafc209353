package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/service/dashboard"
	"github.com/mamadbah2/outletdesk/internal/session"
)

type itemForm struct {
	Barcode      string `form:"barcode"`
	ItemName     string `form:"item_name"`
	Quantity     string `form:"quantity"`
	Cost         string `form:"cost"`
	SellingPrice string `form:"selling_price"`
	ExpiryDate   string `form:"expiry_date"`
	Supplier     string `form:"supplier"`
	Remarks      string `form:"remarks"`
	FormType     string `form:"form_type"`
	StaffName    string `form:"staff_name"`
}

type feedbackForm struct {
	CustomerName string `form:"customer_name"`
	Rating       string `form:"rating"`
	Feedback     string `form:"feedback"`
}

var ratings = []int{1, 2, 3, 4, 5}

// DashboardHandler maps dashboard form posts onto session events.
type DashboardHandler struct {
	svc      *dashboard.Service
	registry *session.Registry
	logger   *zap.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(svc *dashboard.Service, registry *session.Registry, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, registry: registry, logger: logger}
}

// Show renders the entry page for the current session.
func (h *DashboardHandler) Show(c *gin.Context) {
	var data gin.H
	err := h.registry.With(c.GetString(ContextSessionKey), func(st *session.State) error {
		outlet, err := st.Get(session.KeyOutlet)
		if err != nil {
			return err
		}
		data = gin.H{
			"Title":      outlet.(string) + " Dashboard",
			"State":      st,
			"Flash":      st.TakeFlash(),
			"ShowManual": st.ShowManualEntry(),
			"FormTypes":  models.FormTypes,
			"Ratings":    ratings,
		}
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// Lookup resolves the posted barcode.
func (h *DashboardHandler) Lookup(c *gin.Context) {
	h.dispatch(c, dashboard.Event{Type: dashboard.EventLookup, Barcode: c.PostForm("barcode")})
}

// SetStaff stores the staff name for later entries.
func (h *DashboardHandler) SetStaff(c *gin.Context) {
	h.dispatch(c, dashboard.Event{Type: dashboard.EventSetStaff, StaffName: c.PostForm("staff_name")})
}

// SubmitItem records an inventory item.
func (h *DashboardHandler) SubmitItem(c *gin.Context) {
	var form itemForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	h.dispatch(c, dashboard.Event{Type: dashboard.EventSubmitItem, Item: dashboard.ItemInput(form)})
}

// RemoveItem drops one item from the session list.
func (h *DashboardHandler) RemoveItem(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		idx = -1
	}
	h.dispatch(c, dashboard.Event{Type: dashboard.EventRemoveItem, Index: idx})
}

// ClearItems empties the session item list.
func (h *DashboardHandler) ClearItems(c *gin.Context) {
	h.dispatch(c, dashboard.Event{Type: dashboard.EventClearItems})
}

// SubmitAndClear resets the working session.
func (h *DashboardHandler) SubmitAndClear(c *gin.Context) {
	h.dispatch(c, dashboard.Event{Type: dashboard.EventSubmitAndClear})
}

// SubmitFeedback records a customer comment.
func (h *DashboardHandler) SubmitFeedback(c *gin.Context) {
	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	h.dispatch(c, dashboard.Event{
		Type:     dashboard.EventSubmitFeedback,
		Feedback: dashboard.FeedbackInput{CustomerName: form.CustomerName, Rating: form.Rating, Text: form.Feedback},
	})
}

// ClearFeedback empties the session feedback list.
func (h *DashboardHandler) ClearFeedback(c *gin.Context) {
	h.dispatch(c, dashboard.Event{Type: dashboard.EventClearFeedback})
}

func (h *DashboardHandler) dispatch(c *gin.Context, ev dashboard.Event) {
	err := h.registry.With(c.GetString(ContextSessionKey), func(st *session.State) error {
		out, err := h.svc.Dispatch(c.Request.Context(), st, ev)
		if err != nil {
			return err
		}
		if out.Err != nil {
			h.logger.Warn("event completed with remote error", zap.String("event", string(ev.Type)), zap.Bool("retryable", out.Retryable), zap.Error(out.Err))
		}
		st.Notify(out.Level, out.Message)
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *DashboardHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrUnknownSession) || errors.Is(err, dashboard.ErrNotLoggedIn) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	var cfgErr *session.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.logger.Error("session configuration error", zap.Error(err))
		c.String(http.StatusInternalServerError, "session configuration error")
		return
	}

	h.logger.Error("dashboard request failed", zap.Error(err))
	c.String(http.StatusBadRequest, err.Error())
}
