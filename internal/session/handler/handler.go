package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	producthandler "github.com/fekuna/omnipos-storefront/internal/product/handler"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/internal/session/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventBuffer = 16

type SessionHandler struct {
	uc     session.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewSessionHandler(uc session.UseCase, tr *i18n.Translator, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	s, err := h.uc.Create(c.Request.Context(), req.ID, parseParams(req.Params))
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		response.Localized(c, h.tr, http.StatusInternalServerError, "SESSION_STORE_FAILED", "internal_error", nil)
		return
	}
	status := http.StatusCreated
	if s.ID == req.ID {
		status = http.StatusOK
	}
	h.render(c, status, s, s.Navigator().State())
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, s, s.Navigator().State())
}

// ApplyParams installs a parameter bag that arrived from outside, such as a
// shared link or browser navigation. Nothing is written back.
func (h *SessionHandler) ApplyParams(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.ParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.render(c, http.StatusOK, s, s.Navigator().ApplyIncoming(parseParams(req.Params)))
}

func (h *SessionHandler) EditFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.render(c, http.StatusOK, s, s.Navigator().EditFilter(req.FilterState()))
}

func (h *SessionHandler) SetSort(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	state, err := s.Navigator().SetSort(c.Request.Context(), req.Sort)
	h.logSyncError(s, err)
	h.render(c, http.StatusOK, s, state)
}

func (h *SessionHandler) SetPage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	state, err := s.Navigator().SetPage(c.Request.Context(), req.Page, req.Size)
	h.logSyncError(s, err)
	h.render(c, http.StatusOK, s, state)
}

func (h *SessionHandler) RemoveChip(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	state, removed := s.Navigator().RemoveChip(c.Param("key"))
	if !removed {
		response.Localized(c, h.tr, http.StatusNotFound, "CHIP_NOT_FOUND", "invalid_request", nil)
		return
	}
	h.render(c, http.StatusOK, s, state)
}

func (h *SessionHandler) ClearFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, s, s.Navigator().Clear())
}

// Events streams session events as server-sent events until the client goes
// away or the session ends.
func (h *SessionHandler) Events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, unsubscribe := s.Subscribe(eventBuffer)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(session.EventParams, session.Event{Type: session.EventParams, Params: s.Navigator().Params().Encode()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(e.Type, e)
			return true
		}
	})
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.uc.End(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.uc.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// render answers with the state and, once the catalog is loaded, the page it
// selects.
func (h *SessionHandler) render(c *gin.Context, status int, s *session.Session, state navigation.State) {
	out := dto.SessionView{
		ID:     s.ID,
		State:  state,
		Params: navigation.Encode(state).Encode(),
	}
	if view, err := h.uc.View(s); err == nil {
		view.Chips = producthandler.LocalizeChips(c, h.tr, view.Chips, view.Filter)
		out.View = &view
	} else {
		h.logger.Debug("session view without catalog", zap.String("session_id", s.ID), zap.Error(err))
	}
	c.JSON(status, out)
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		response.Localized(c, h.tr, http.StatusNotFound, "SESSION_NOT_FOUND", "session_not_found", nil)
		return
	}
	h.logger.Error("session request failed", zap.Error(err))
	response.Localized(c, h.tr, http.StatusInternalServerError, "INTERNAL", "internal_error", nil)
}

func (h *SessionHandler) badRequest(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
}

func (h *SessionHandler) logSyncError(s *session.Session, err error) {
	if err != nil {
		h.logger.Warn("navigation sync failed", zap.String("session_id", s.ID), zap.Error(err))
	}
}

// parseParams keeps whatever pairs parse; decoding is lenient.
func parseParams(raw string) url.Values {
	values, _ := url.ParseQuery(raw)
	return values
}
