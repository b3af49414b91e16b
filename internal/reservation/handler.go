package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeysi05/pickle-jar-courts/internal/api"
	"github.com/jeysi05/pickle-jar-courts/internal/auth"
	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

const (
	msgSaved         = "Booking request sent. The admin will review it shortly."
	msgSavedUnsent   = "Booking saved, but the admin may not have been notified."
	msgWriteFailed   = "Your booking did not save. Please try again."
	msgSlotsConflict = "Some selected slots are no longer available"
)

type SubmitResponse struct {
	*Submission
	Message string `json:"message"`
}

type WriteFailureResponse struct {
	Error        string        `json:"error"`
	Message      string        `json:"message"`
	Failed       []string      `json:"failed,omitempty"`
	Reservations []Reservation `json:"reservations,omitempty"`
}

type ConflictResponse struct {
	Error string   `json:"error"`
	Taken []string `json:"taken,omitempty"`
	Past  []string `json:"past,omitempty"`
}

type Handler struct {
	service Service
	rules   pricing.Rules
}

func NewHandler(service Service, rules pricing.Rules) *Handler {
	return &Handler{service: service, rules: rules}
}

// Availability lists every slot of the day with its state and price for the
// caller's pricing mode.
func (h *Handler) Availability(c *gin.Context) {
	courtID, ok := pathID(c, "courtID")
	if !ok {
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), courtID, c.Query("date"), auth.ModeFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

func (h *Handler) Quote(c *gin.Context) {
	courtID, ok := pathID(c, "courtID")
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	q, err := h.service.Quote(c.Request.Context(), courtID, req, auth.ModeFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) Submit(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	sub, err := h.service.Submit(c.Request.Context(), req, auth.ModeFromContext(c))
	if err != nil {
		if errors.Is(err, ErrExternalWrite) {
			resp := WriteFailureResponse{Error: ErrExternalWrite.Error(), Message: msgWriteFailed}
			if sub != nil {
				resp.Failed = sub.Failed
				resp.Reservations = sub.Reservations
			}
			c.JSON(http.StatusBadGateway, resp)
			return
		}
		writeError(c, err)
		return
	}

	msg := msgSaved
	if !sub.Notified {
		msg = msgSavedUnsent
	}
	c.JSON(http.StatusCreated, SubmitResponse{Submission: sub, Message: msg})
}

func (h *Handler) List(c *gin.Context) {
	filter := Filter{
		Status: Status(c.Query("status")),
		Date:   c.Query("date"),
	}
	if v := c.Query("court_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid court ID"})
			return
		}
		filter.CourtID = id
	}

	reservations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reservation rejected"})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reservation deleted"})
}

func (h *Handler) CalendarLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	link, err := h.service.CalendarLink(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PricingRules shows the active rule set.
func (h *Handler) PricingRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.rules)
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var unavailable pricing.SlotUnavailableError
	switch {
	case errors.As(err, &unavailable):
		c.JSON(http.StatusConflict, ConflictResponse{
			Error: msgSlotsConflict,
			Taken: unavailable.Taken,
			Past:  unavailable.Past,
		})
	case errors.Is(err, ErrSlotTaken):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, pricing.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrCourtNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Court not found"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Reservation not found"})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotBooked):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}
