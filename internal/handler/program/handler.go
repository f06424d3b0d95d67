package program

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/middleware"
	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/service/program"
	"github.com/nutrivo/practice-api/internal/service/summary"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/httputil"
)

type Handler struct {
	programs  *program.Service
	summaries *summary.Service
}

func NewHandler(programs *program.Service, summaries *summary.Service) *Handler {
	return &Handler{programs: programs, summaries: summaries}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	programs := r.Group("/programs")
	{
		programs.POST("", h.CreateProgram)
		programs.GET("", h.ListPrograms)
		programs.GET("/:id", h.GetProgram)

		programs.POST("/:id/participants", h.EnrollParticipant)
		programs.POST("/:id/meetings", h.ScheduleMeeting)
		programs.POST("/:id/meetings/:meetingId/records", h.RecordCheckIn)

		programs.POST("/:id/summaries", h.GenerateSummary)
		programs.GET("/:id/summaries", h.ListSummaries)
	}
}

func requestScope(c *gin.Context) (*model.TokenClaims, uuid.UUID, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid program ID", err))
		return nil, uuid.Nil, false
	}
	return claims, id, true
}

func (h *Handler) CreateProgram(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return
	}

	var req model.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	created, err := h.programs.CreateProgram(c.Request.Context(), claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) ListPrograms(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return
	}

	programs, err := h.programs.ListPrograms(c.Request.Context(), claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, programs)
}

func (h *Handler) GetProgram(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	found, err := h.programs.GetProgram(c.Request.Context(), id, claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

type enrollRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

func (h *Handler) EnrollParticipant(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	participant, err := h.programs.EnrollParticipant(c.Request.Context(), id, claims.OrganizationID, req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, participant)
}

type meetingRequest struct {
	Date  time.Time `json:"date" binding:"required"`
	Topic *string   `json:"topic"`
}

func (h *Handler) ScheduleMeeting(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req meetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	meeting, err := h.programs.ScheduleMeeting(c.Request.Context(), id, claims.OrganizationID, req.Date, req.Topic)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, meeting)
}

type checkInRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" binding:"required"`
	Present       bool      `json:"present"`
	Weight        *float64  `json:"weight"`
	BMI           *float64  `json:"bmi"`
	Notes         *string   `json:"notes"`
}

func (h *Handler) RecordCheckIn(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}
	meetingID, err := uuid.Parse(c.Param("meetingId"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid meeting ID", err))
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	record, err := h.programs.RecordCheckIn(c.Request.Context(), id, claims.OrganizationID, &model.MeetingRecord{
		MeetingID:     meetingID,
		ParticipantID: req.ParticipantID,
		Present:       req.Present,
		Weight:        req.Weight,
		BMI:           req.BMI,
		Notes:         req.Notes,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, record)
}

func (h *Handler) GenerateSummary(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.GenerateProgramSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	artifact, err := h.summaries.GenerateProgramSummary(c.Request.Context(), summary.ProgramSummaryRequest{
		OrganizationID: claims.OrganizationID,
		ProgramID:      id,
		ProfessionalID: claims.ProfessionalID,
		Mode:           req.Mode,
		MeetingID:      req.MeetingID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, artifact)
}

func (h *Handler) ListSummaries(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	artifacts, err := h.summaries.ListProgramSummaries(c.Request.Context(), claims.OrganizationID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, artifacts)
}
