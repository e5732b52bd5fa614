package v1

import (
	"net/http"

	"studio-inquiry-backend/internal/delivery/http/response"
	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	public.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Health Check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  response.ErrorBody
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status, err := h.healthUC.Check(c.Request.Context())
	if err != nil {
		c.Error(apperror.New(http.StatusServiceUnavailable, apperror.KindStorageUnavailable, "Inquiry store unavailable", err))
		return
	}
	response.JSON(c, http.StatusOK, status)
}
