package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mstolarczyk/Goshawk/internal/dto"
	"github.com/mstolarczyk/Goshawk/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionController struct {
	questionQuery service.QuestionQueryService
}

func NewQuestionController(questionQuery service.QuestionQueryService) *QuestionController {
	return &QuestionController{questionQuery: questionQuery}
}

func (c *QuestionController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/banks", c.ListBanks)
	group.GET("/questions", c.ListActiveBankQuestions)
	group.GET("/questions/:id", c.GetQuestion)
}

// ListBanks godoc
// @Summary List question banks
// @Tags Questions
// @Produce json
// @Success 200 {array} dto.QuestionBankResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /banks [get]
func (c *QuestionController) ListBanks(ctx *gin.Context) {
	banks, err := c.questionQuery.ListBanks()
	if err != nil {
		log.Error().Err(err).Msg("ListBanks: Failed to list banks")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list question banks"})
		return
	}
	ctx.JSON(http.StatusOK, banks)
}

// ListActiveBankQuestions godoc
// @Summary List the active bank's questions for one locale
// @Description Returns every question of the currently active bank with stems and option texts resolved to the requested locale (default pl).
// @Tags Questions
// @Produce json
// @Param locale query string false "Locale (pl, en, de, ua)" default(pl)
// @Success 200 {object} dto.BankQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "No active question bank"
// @Router /questions [get]
func (c *QuestionController) ListActiveBankQuestions(ctx *gin.Context) {
	locale := ctx.DefaultQuery("locale", "pl")

	resp, err := c.questionQuery.ActiveBankQuestions(locale)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No active question bank"})
			return
		}
		log.Warn().Err(err).Str("locale", locale).Msg("ListActiveBankQuestions failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to list questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestion godoc
// @Summary Get one question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Param locale query string false "Locale (pl, en, de, ua)" default(pl)
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID"})
		return
	}
	locale := ctx.DefaultQuery("locale", "pl")

	question, err := c.questionQuery.GetQuestion(uint(id), locale)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
			return
		}
		log.Warn().Err(err).Uint64("questionID", id).Msg("GetQuestion failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to load question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, question)
}
