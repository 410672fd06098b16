package handler

import (
	"io"
	"net/http"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadSize caps a single uploaded file.
const maxUploadSize = 10 << 20

// HealthCheck reports credential and database readiness.
func (h *Handler) HealthCheck(c *gin.Context) {
	report := h.svc.Health.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *Handler) Weather(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.svc.Weather.Current(c.Query("location"))})
}

func (h *Handler) WeatherAlerts(c *gin.Context) {
	alerts, err := h.svc.Weather.Alerts(c.Request.Context(), c.Query("location"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

// CreateWeatherAlert publishes an alert for a location.
func (h *Handler) CreateWeatherAlert(c *gin.Context) {
	var alert models.WeatherAlert
	if err := c.ShouldBindJSON(&alert); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.svc.Weather.AddAlert(c.Request.Context(), &alert); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": alert})
}

// Upload stores a multipart "file" under the folder named by "type".
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file provided")
		return
	}
	if fh.Size > maxUploadSize {
		badRequest(c, "File too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	up, err := h.svc.Upload.Upload(c.Request.Context(), c.DefaultPostForm("type", "general"), fh.Filename, data)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, up)
}
