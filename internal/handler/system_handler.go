package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/subject-catalog/internal/response"
)

// SystemHandler serves liveness information.
type SystemHandler struct {
	dataFile  string
	startedAt time.Time
}

func NewSystemHandler(dataFile string) *SystemHandler {
	return &SystemHandler{dataFile: dataFile, startedAt: time.Now()}
}

// Health godoc
// GET /health
// Reports "ok" and whether the data file exists yet.
func (h *SystemHandler) Health(c *gin.Context) {
	_, err := os.Stat(h.dataFile)
	response.Success(c, http.StatusOK, gin.H{
		"status":         "ok",
		"data_file":      err == nil,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
