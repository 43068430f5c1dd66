package handler

import (
	"net/http"
	"strconv"

	"github.com/ai919/funquiz-backend/internal/importer"
	"github.com/ai919/funquiz-backend/internal/response"
	"github.com/ai919/funquiz-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ImportHandler handles the quiz bundle import endpoint.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportQuiz godoc
// POST /api/v1/admin/quizzes/import?overwrite=false&dry_run=true
// Body is the raw bundle JSON. dry_run defaults to true so an interactive
// client has to opt in to committing.
func (h *ImportHandler) ImportQuiz(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	params := importer.Params{
		Overwrite: parseBoolQuery(c, "overwrite", false),
		DryRun:    parseBoolQuery(c, "dry_run", true),
	}

	outcome, err := h.importService.Import(c.Request.Context(), raw, params)
	if err != nil {
		h.failImport(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Action == importer.ActionCreate && !outcome.DryRun {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"outcome": outcome})
}

// failImport maps the pipeline's discriminated error kinds to HTTP responses.
func (h *ImportHandler) failImport(c *gin.Context, err error) {
	ie, ok := importer.AsError(err)
	if !ok {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	switch ie.Kind {
	case importer.ErrorKindValidation:
		fields := make(map[string]string, len(ie.Violations))
		for _, v := range ie.Violations {
			fields[v.Field] = v.Reason
		}
		response.FailWithFields(c, http.StatusBadRequest, response.ErrBundleInvalid, fields)
	case importer.ErrorKindConflict:
		response.FailWithMessage(c, http.StatusConflict, response.ErrSlugConflict, ie.Message)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrImportStorage)
	}
}

func parseBoolQuery(c *gin.Context, name string, fallback bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
