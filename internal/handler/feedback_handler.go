package handler

import (
	"fmt"
	"net/http"
	"time"

	"feedback_portal/internal/middleware"
	"feedback_portal/internal/model"
	"feedback_portal/internal/query"
	"feedback_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback requests
type FeedbackHandler struct {
	service service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(s service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: s}
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	var req model.CreateFeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	feedback, err := h.service.Create(c.Request.Context(), middleware.CallerID(c), req)
	if err != nil {
		writeError(c, "feedback creation", err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

func (h *FeedbackHandler) ListAll(c *gin.Context) {
	feedbacks, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, "feedback listing", err)
		return
	}
	c.JSON(http.StatusOK, feedbacks)
}

func (h *FeedbackHandler) List(c *gin.Context) {
	var params query.Params
	if err := bindJSON(c, &params); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, "feedback listing", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	var req model.UpdateFeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	feedback, err := h.service.Update(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, "feedback update", err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	feedback, err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		writeError(c, "feedback deletion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully", "feedback": feedback})
}

func (h *FeedbackHandler) ExportCSV(c *gin.Context) {
	csvBuffer, err := h.service.ExportCSV(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeError(c, "feedback export", err)
		return
	}

	fileName := fmt.Sprintf("feedbacks_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterFeedbackRoutes registers feedback routes
func (h *FeedbackHandler) RegisterFeedbackRoutes(rg *gin.RouterGroup, callerMW gin.HandlerFunc) {
	feedbacks := rg.Group("/feedbacks")
	{
		feedbacks.GET("", h.ListAll)
		feedbacks.POST("", h.Create)
		feedbacks.POST("/list", h.List)
		feedbacks.POST("/export", callerMW, h.ExportCSV) // Admin only, checked by the service
		feedbacks.PUT("/:id", callerMW, h.Update)
		feedbacks.DELETE("/:id", callerMW, h.Delete)
	}
}
