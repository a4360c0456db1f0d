// Package handlers exposes the sync engine over HTTP.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/application/sync/usecases"
	"github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
	"github.com/flowdesk-inc/flowdesk/internal/shared/utils"
)

type SyncHandler struct {
	push       *usecases.PushTasksUseCase
	calendar   *usecases.FetchCalendarWindowUseCase
	taskStatus *usecases.FetchTaskStatusUseCase
	applyLinks *usecases.ApplyLinksUseCase
	connect    *usecases.ConnectUseCase
	disconnect *usecases.DisconnectUseCase
	logger     logger.Interface
}

func NewSyncHandler(
	push *usecases.PushTasksUseCase,
	calendar *usecases.FetchCalendarWindowUseCase,
	taskStatus *usecases.FetchTaskStatusUseCase,
	applyLinks *usecases.ApplyLinksUseCase,
	connect *usecases.ConnectUseCase,
	disconnect *usecases.DisconnectUseCase,
	logger logger.Interface,
) *SyncHandler {
	return &SyncHandler{
		push:       push,
		calendar:   calendar,
		taskStatus: taskStatus,
		applyLinks: applyLinks,
		connect:    connect,
		disconnect: disconnect,
		logger:     logger,
	}
}

func (h *SyncHandler) currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("User not authenticated"))
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		h.logger.Errorw("invalid user_id type in context", "user_id", value)
		utils.ErrorResponseWithError(c, errors.NewInternalError("Internal error"))
		return 0, false
	}
	return userID, true
}

// PushTasks pushes a batch of tasks to one remote calendar and returns the
// external ids for the client to persist through ApplyLinks.
func (h *SyncHandler) PushTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid push request body", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.push.Execute(c.Request.Context(), userID, req.Tasks, req.CalendarID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetCalendarWindow returns the classified events of one logical-day window.
func (h *SyncHandler) GetCalendarWindow(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	dayOffset := 0
	if raw := c.Query("day_offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("day_offset must be an integer"))
			return
		}
		dayOffset = parsed
	}

	var calendarIDs []string
	for _, id := range strings.Split(c.Query("calendar_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			calendarIDs = append(calendarIDs, id)
		}
	}

	result, err := h.calendar.Execute(c.Request.Context(), userID, calendarIDs, dayOffset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTaskStatus returns the state of the dedicated remote task list.
func (h *SyncHandler) GetTaskStatus(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.taskStatus.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ApplyLinks persists a push result through the versioned save path.
func (h *SyncHandler) ApplyLinks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid apply-links request body", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.applyLinks.Execute(c.Request.Context(), userID, req.CalendarID, req.Results)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Connect starts the OAuth consent flow and returns the authorization URL.
func (h *SyncHandler) Connect(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.connect.Initiate(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Callback finishes the OAuth consent flow. Reached by provider redirect, so
// it is unauthenticated; the one-time state resolves the owning user.
func (h *SyncHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("oauth consent denied", "error", errParam)
		utils.ErrorResponseWithError(c, errors.NewValidationError("authorization was denied"))
		return
	}

	userID, err := h.connect.Callback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("oauth callback completed", "user_id", userID)
	utils.SuccessResponse(c, http.StatusOK, "Integration connected", nil)
}

// Disconnect revokes the remote grant and clears the stored credential.
func (h *SyncHandler) Disconnect(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.disconnect.Execute(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
