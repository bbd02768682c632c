package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mstolarczyk/Goshawk/internal/dto"
	"github.com/mstolarczyk/Goshawk/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ImportController struct {
	importService service.ImportService
	runQuery      service.ImportRunQueryService
	repairService service.MediaRepairService
}

func NewImportController(importService service.ImportService, runQuery service.ImportRunQueryService, repairService service.MediaRepairService) *ImportController {
	return &ImportController{importService: importService, runQuery: runQuery, repairService: repairService}
}

func (c *ImportController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/imports", c.StartImport)
	group.GET("/import-runs", c.ListImportRuns)
	group.GET("/import-runs/:id", c.GetImportRun)
	group.POST("/media-repairs", c.RepairMedia)
}

// StartImport godoc
// @Summary (Admin) Import a question bank from an XLSX sheet
// @Description Runs a synchronous import of the official question sheet against a media directory. Both paths are server-side. The run ledger is written regardless of outcome.
// @Tags Admin - Imports
// @Accept json
// @Produce json
// @Param import_request body dto.ImportStartDTO true "Import parameters"
// @Success 201 {object} dto.QuestionBankResponse "Import finished; see import runs for the ledger"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or fatal import precondition"
// @Failure 409 {object} dto.ErrorResponse "Bank has linked exam attempts and cannot be replaced"
// @Router /admin/imports [post]
func (c *ImportController) StartImport(ctx *gin.Context) {
	var req dto.ImportStartDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartImport: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	importReq := service.ImportRequest{
		XlsxPath:        req.XlsxPath,
		MediaRoot:       req.MediaRoot,
		Identifier:      req.Identifier,
		ReplaceExisting: true,
		Activate:        true,
	}
	if req.ReplaceExisting != nil {
		importReq.ReplaceExisting = *req.ReplaceExisting
	}
	if req.Activate != nil {
		importReq.Activate = *req.Activate
	}
	if req.PublishedOn != nil && *req.PublishedOn != "" {
		published, err := time.Parse("2006-01-02", *req.PublishedOn)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid published_on date", Details: []string{err.Error()}})
			return
		}
		importReq.PublishedOn = &published
	}

	bank, err := c.importService.Import(importReq)
	if err != nil {
		log.Error().Err(err).Str("identifier", req.Identifier).Msg("StartImport: Import failed")
		if errors.Is(err, service.ErrBankHasAttempts) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Question bank is referenced by exam attempts", Details: []string{err.Error()}})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Import failed", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusCreated, dto.QuestionBankResponse{
		ID:             bank.ID,
		Identifier:     bank.Identifier,
		SourceFilename: bank.SourceFilename,
		SourceChecksum: bank.SourceChecksum,
		PublishedOn:    bank.PublishedOn,
		ImportedAt:     bank.ImportedAt,
		Active:         bank.Active,
	})
}

// ListImportRuns godoc
// @Summary (Admin) List import runs
// @Description Lists past import runs, newest first, without issue payloads.
// @Tags Admin - Imports
// @Produce json
// @Param limit query int false "Maximum number of runs to return"
// @Success 200 {array} dto.ImportRunResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/import-runs [get]
func (c *ImportController) ListImportRuns(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	runs, err := c.runQuery.ListRuns(limit)
	if err != nil {
		log.Error().Err(err).Msg("ListImportRuns: Failed to list runs")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list import runs"})
		return
	}
	ctx.JSON(http.StatusOK, runs)
}

// GetImportRun godoc
// @Summary (Admin) Get one import run with its issues
// @Tags Admin - Imports
// @Produce json
// @Param id path int true "Import run ID"
// @Success 200 {object} dto.ImportRunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/import-runs/{id} [get]
func (c *ImportController) GetImportRun(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid import run ID"})
		return
	}

	run, err := c.runQuery.GetRun(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Import run not found"})
			return
		}
		log.Error().Err(err).Uint64("runID", id).Msg("GetImportRun: Failed to load run")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load import run"})
		return
	}
	ctx.JSON(http.StatusOK, run)
}

// RepairMedia godoc
// @Summary (Admin) Re-resolve missing media links
// @Description Scans media links still marked missing and attaches files that have appeared in the media directory since the import. Dry run by default.
// @Tags Admin - Imports
// @Accept json
// @Produce json
// @Param repair_request body dto.MediaRepairDTO true "Repair parameters"
// @Success 200 {object} service.RepairResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/media-repairs [post]
func (c *ImportController) RepairMedia(ctx *gin.Context) {
	var req dto.MediaRepairDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	repairReq := service.RepairRequest{MediaRoot: req.MediaRoot, DryRun: true, Limit: req.Limit}
	if req.DryRun != nil {
		repairReq.DryRun = *req.DryRun
	}

	result, err := c.repairService.Repair(repairReq)
	if err != nil {
		log.Error().Err(err).Msg("RepairMedia: Repair failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Media repair failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
