package v1

import (
	"errors"
	"net/http"

	"studio-inquiry-backend/internal/delivery/http/response"
	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limit ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", append(limit, handler.SubmitContact)...)
}

// SubmitContact godoc
// @Summary      Submit Project Inquiry
// @Description  Store a contact form inquiry. Public endpoint; every call creates a new record.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        inquiry  body      domain.InquiryInput  true  "Inquiry"
// @Success      201      {object}  domain.ContactInquiry
// @Failure      400      {object}  response.ValidationErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.InquiryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.MalformedRequest("Request body too large", err))
			return
		}
		c.Error(apperror.MalformedRequest("Request body must be a JSON object with name, email and projectDetails", err))
		return
	}

	inquiry, err := h.contactUC.SubmitInquiry(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusCreated, inquiry)
}
