package handler

import (
	"net/http"

	"github.com/Vidhi35/Kisan-Mitra/internal/middleware"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDiagnoses(c *gin.Context) {
	userID := c.DefaultQuery("userId", middleware.UserID(c))
	list, err := h.svc.Diagnosis.ListDiagnoses(c.Request.Context(), userID, queryInt(c, "limit", 10))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *Handler) CreateDiagnosis(c *gin.Context) {
	var req models.CreateDiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	d, err := h.svc.Diagnosis.CreateDiagnosis(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": d})
}

func (h *Handler) GetDiagnosis(c *gin.Context) {
	d, err := h.svc.Diagnosis.GetDiagnosis(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts := h.svc.Community.ListPosts(c.Request.Context(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	post, err := h.svc.Community.CreatePost(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// GetPost returns a post and counts the view.
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.svc.Community.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *Handler) LikePost(c *gin.Context) {
	if err := h.svc.Community.LikePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	if err := h.svc.Community.UnlikePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.svc.Community.GetComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *Handler) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	comment, err := h.svc.Community.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (h *Handler) MarketRates(c *gin.Context) {
	rates, err := h.svc.Market.Rates(c.Request.Context(), models.MarketFilter{
		CropName:       c.Query("crop_name"),
		MarketLocation: c.Query("market_location"),
		State:          c.Query("state"),
		Limit:          queryInt(c, "limit", 50),
	})
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (h *Handler) PriceHistory(c *gin.Context) {
	history, err := h.svc.Market.PriceHistory(c.Request.Context(), c.Param("crop"), queryInt(c, "days", 30))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.svc.Records.ListRecords(c.Request.Context(), middleware.UserID(c), models.RecordFilter{
		RecordType: c.Query("record_type"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		Limit:      queryInt(c, "limit", 50),
	})
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var in models.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	rec, err := h.svc.Records.CreateRecord(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rec})
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	var in models.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	rec, err := h.svc.Records.UpdateRecord(c.Request.Context(), c.Param("id"), middleware.UserID(c), in)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.svc.Records.DeleteRecord(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordSummary totals the user's costs; ?month=YYYY-MM narrows it.
func (h *Handler) RecordSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Records.Summary(c.Request.Context(), middleware.UserID(c), c.Query("month")))
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.svc.Profile.GetProfile(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var u models.ProfileUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "User ID required")
		return
	}
	p, err := h.svc.Profile.UpdateProfile(c.Request.Context(), u)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": p})
}

func (h *Handler) ProfileStats(c *gin.Context) {
	stats, err := h.svc.Profile.Stats(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}
