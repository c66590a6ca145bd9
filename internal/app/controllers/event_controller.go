package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// EventController handles events and event registrations
type EventController struct {
	eventService    services.EventService
	registerService services.EventRegisterService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, registerService services.EventRegisterService) *EventController {
	return &EventController{eventService: eventService, registerService: registerService}
}

// ListEvents lists events, optionally filtered by category
// @Summary List events
// @Tags events
// @Produce json
// @Param category query string false "Category" Enums(workshop, seminar, webinar, conference)
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid category"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(events))
}

// GetEvent retrieves an event
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sự kiện")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(event))
}

// CreateEvent creates an event owned by the caller
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event information"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or category"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(event))
}

// UpdateEvent updates an event
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
// @Router /events/{id} [patch]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sự kiện")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), middleware.ActorFromContext(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(event))
}

// DeleteEvent deletes an event and its registrations
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "Event deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sự kiện")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx.Request.Context(), middleware.ActorFromContext(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UploadEventImage stores an uploaded image for the event
// @Summary Upload event image
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param image formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Image uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid image"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/image [post]
func (c *EventController) UploadEventImage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sự kiện")
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Vui lòng chọn ảnh để tải lên.")
		errorDetail = errorDetail.WithField("image").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	event, err := c.eventService.UploadEventImage(ctx.Request.Context(), middleware.ActorFromContext(ctx), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(event))
}

// ListRegistrations lists event registrations
// @Summary List event registrations
// @Tags event-registers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EventRegisterResponse} "Registrations retrieved successfully"
// @Router /event-registers [get]
func (c *EventController) ListRegistrations(ctx *gin.Context) {
	rows, err := c.registerService.ListRegistrations(ctx.Request.Context(), middleware.ActorFromContext(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}

// Register registers the caller for an event
// @Summary Register for an event
// @Tags event-registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRegisterRequest true "Event to register for"
// @Success 201 {object} dto.APIResponse{data=dto.EventRegisterResponse} "Registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or already registered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /event-registers [post]
func (c *EventController) Register(ctx *gin.Context) {
	var req dto.CreateEventRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	registration, err := c.registerService.Register(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(registration))
}

// IsRegistered reports whether the caller is registered for the event
// @Summary Check event registration
// @Tags event-registers
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.IsRegisteredResponse} "Registration status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /event-registers/is-registered/{event_id} [get]
func (c *EventController) IsRegistered(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "event_id", "sự kiện")
	if !ok {
		return
	}

	registered, err := c.registerService.IsRegistered(ctx.Request.Context(), middleware.ActorFromContext(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.IsRegisteredResponse{IsRegistered: registered}))
}

// CancelRegistration cancels the caller's registration for the event
// @Summary Cancel event registration
// @Tags event-registers
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 204 "Registration cancelled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /event-registers/cancel/{event_id} [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "event_id", "sự kiện")
	if !ok {
		return
	}

	if err := c.registerService.Cancel(ctx.Request.Context(), middleware.ActorFromContext(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
