package handler

import (
	"net/http"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/middleware"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/gin-gonic/gin"
)

// Assistant answers a farmer conversation.
func (h *Handler) Assistant(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Messages required")
		return
	}

	reply, err := h.svc.Assistant.Chat(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Diagnose runs the vision diagnosis on an uploaded image.
func (h *Handler) Diagnose(c *gin.Context) {
	var req models.DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No image provided")
		return
	}

	result, err := h.svc.Diagnosis.Diagnose(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// AnalyzeImage classifies an image and returns treatment advice.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req models.AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Image is required")
		return
	}

	analysis, err := h.svc.Analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) QueryScheme(c *gin.Context) {
	var req models.SchemeQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Scheme name is required")
		return
	}

	details, err := h.svc.Advisory.SchemeDetails(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

func (h *Handler) ListSchemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      h.svc.Advisory.ListSchemes(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) News(c *gin.Context) {
	digest, err := h.svc.Advisory.News(c.Request.Context(), c.Query("language"))
	if err != nil {
		h.fail(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": digest})
}

func (h *Handler) MarketInsight(c *gin.Context) {
	insight, err := h.svc.Advisory.MarketInsight(c.Request.Context(), c.Query("crop"), c.Query("state"), c.Query("language"))
	if err != nil {
		h.fail(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": insight})
}
