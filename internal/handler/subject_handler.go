package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/subject-catalog/internal/model"
	"github.com/stemsi/subject-catalog/internal/query"
	"github.com/stemsi/subject-catalog/internal/repository"
	"github.com/stemsi/subject-catalog/internal/response"
	"github.com/stemsi/subject-catalog/internal/service"
	"github.com/stemsi/subject-catalog/internal/validator"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// Teachers godoc
// GET /api/teachers
func (h *SubjectHandler) Teachers(c *gin.Context) {
	teachers, err := h.subjectService.Teachers(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

// List godoc
// GET /api/subjects?q=&teacher=&page=&limit=
// The body is the requested page; X-Total-Count is the number of matches.
func (h *SubjectHandler) List(c *gin.Context) {
	q := query.ParseSubjectQuery(
		c.Query("q"),
		c.Query("teacher"),
		c.Query("page"),
		c.Query("limit"),
	)

	result, err := h.subjectService.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithTotal(c, result.Items, result.Total)
}

// Get godoc
// GET /api/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		failFor(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

// Create godoc
// POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.SubjectInput
	if err := validator.Bind(c, &req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	sub, err := h.subjectService.Create(c.Request.Context(), req)
	if err != nil {
		failFor(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// Update godoc
// PUT /api/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.SubjectInput
	if err := validator.Bind(c, &req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	sub, err := h.subjectService.Update(c.Request.Context(), id, req)
	if err != nil {
		failFor(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

// Delete godoc
// DELETE /api/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		failFor(c, err)
		return
	}
	response.NoContent(c)
}

// parseID reads the :id path segment. A non-numeric ID can never match a
// stored subject, so it is reported as not found.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return 0, false
	}
	return id, true
}

// failFor maps service errors onto responses. Anything unexpected becomes a
// generic 500 without detail.
func failFor(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.FailWithReasons(c, http.StatusBadRequest, response.ErrValidation, ve.Reasons)
	case errors.Is(err, repository.ErrSubjectNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
