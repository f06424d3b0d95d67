package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/email"
	"github.com/nutrivo/practice-api/internal/middleware"
	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/service/clinicaldata"
	"github.com/nutrivo/practice-api/internal/service/patient"
	"github.com/nutrivo/practice-api/internal/service/report"
	"github.com/nutrivo/practice-api/internal/service/summary"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/httputil"
)

type Handler struct {
	patients     *patient.Service
	clinicalData *clinicaldata.Service
	reports      *report.Service
	summaries    *summary.Service
	email        email.Service
}

func NewHandler(
	patients *patient.Service,
	clinicalData *clinicaldata.Service,
	reports *report.Service,
	summaries *summary.Service,
	emailService email.Service,
) *Handler {
	return &Handler{
		patients:     patients,
		clinicalData: clinicalData,
		reports:      reports,
		summaries:    summaries,
		email:        emailService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.POST("/:id/anthropometry", h.AddAnthropometry)
		patients.GET("/:id/anthropometry", h.ListAnthropometry)
		patients.DELETE("/:id/anthropometry/:recordId", h.DeleteAnthropometry)

		patients.POST("/:id/lab-results", h.AddLabResult)
		patients.GET("/:id/lab-results", h.ListLabResults)
		patients.DELETE("/:id/lab-results/:resultId", h.DeleteLabResult)

		patients.POST("/:id/consultations", h.AddConsultation)
		patients.GET("/:id/consultations", h.ListConsultations)
		patients.DELETE("/:id/consultations/:consultationId", h.DeleteConsultation)

		patients.POST("/:id/plans", h.AddNutritionPlan)
		patients.GET("/:id/plans", h.ListNutritionPlans)
		patients.GET("/:id/plans/active", h.GetActivePlan)

		patients.POST("/:id/guidance", h.AddGuidance)
		patients.GET("/:id/guidance", h.ListGuidance)

		patients.GET("/:id/report", h.GetReport)
		patients.POST("/:id/report/email", h.EmailReport)

		patients.POST("/:id/summaries", h.GenerateSummary)
		patients.GET("/:id/summaries", h.ListSummaries)

		patients.POST("/:id/diagnosis-suggestions", h.SuggestDiagnoses)
	}
}

// requestScope extracts the tenant claims plus the patient id from the path.
func requestScope(c *gin.Context) (*model.TokenClaims, uuid.UUID, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid patient ID", err))
		return nil, uuid.Nil, false
	}
	return claims, id, true
}

func (h *Handler) CreatePatient(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	created, err := h.patients.CreatePatient(c.Request.Context(), claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) ListPatients(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		return
	}

	filters := &model.PatientFilters{
		OrganizationID: claims.OrganizationID,
		SearchTerm:     c.Query("search"),
		Status:         c.Query("status"),
	}
	patients, err := h.patients.ListPatients(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	found, err := h.patients.GetPatient(c.Request.Context(), id, claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	updated, err := h.patients.UpdatePatient(c.Request.Context(), id, claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, updated)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.patients.DeletePatient(c.Request.Context(), id, claims.OrganizationID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) AddAnthropometry(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.CreateAnthropometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	record, err := h.clinicalData.CreateAnthropometry(c.Request.Context(), id, claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, record)
}

func (h *Handler) ListAnthropometry(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	records, err := h.clinicalData.ListAnthropometry(c.Request.Context(), &model.AnthropometryFilters{
		PatientID:      id,
		OrganizationID: claims.OrganizationID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, records)
}

func (h *Handler) DeleteAnthropometry(c *gin.Context) {
	claims, _, ok := requestScope(c)
	if !ok {
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid record ID", err))
		return
	}

	if err := h.clinicalData.DeleteAnthropometry(c.Request.Context(), recordID, claims.OrganizationID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) AddLabResult(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.CreateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.clinicalData.CreateLabResult(c.Request.Context(), id, claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, result)
}

func (h *Handler) ListLabResults(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	results, err := h.clinicalData.ListLabResults(c.Request.Context(), &model.LabResultFilters{
		PatientID:      id,
		OrganizationID: claims.OrganizationID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, results)
}

func (h *Handler) DeleteLabResult(c *gin.Context) {
	claims, _, ok := requestScope(c)
	if !ok {
		return
	}
	resultID, err := uuid.Parse(c.Param("resultId"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid result ID", err))
		return
	}

	if err := h.clinicalData.DeleteLabResult(c.Request.Context(), resultID, claims.OrganizationID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) AddConsultation(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	// The path is authoritative for the patient.
	req.PatientID = id

	consultation, err := h.clinicalData.CreateConsultation(c.Request.Context(), claims.OrganizationID, claims.ProfessionalID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, consultation)
}

func (h *Handler) ListConsultations(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	consultations, err := h.clinicalData.ListConsultations(c.Request.Context(), &model.ConsultationFilters{
		OrganizationID: claims.OrganizationID,
		PatientID:      &id,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, consultations)
}

func (h *Handler) DeleteConsultation(c *gin.Context) {
	claims, _, ok := requestScope(c)
	if !ok {
		return
	}
	consultationID, err := uuid.Parse(c.Param("consultationId"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid consultation ID", err))
		return
	}

	if err := h.clinicalData.DeleteConsultation(c.Request.Context(), consultationID, claims.OrganizationID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) AddNutritionPlan(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.CreateNutritionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	plan, err := h.clinicalData.CreateNutritionPlan(c.Request.Context(), id, claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, plan)
}

func (h *Handler) ListNutritionPlans(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	plans, err := h.clinicalData.ListNutritionPlans(c.Request.Context(), id, claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, plans)
}

func (h *Handler) GetActivePlan(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	plan, err := h.clinicalData.GetActivePlan(c.Request.Context(), id, claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, plan)
}

func (h *Handler) AddGuidance(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.CreateGuidanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	guidance, err := h.clinicalData.CreateGuidance(c.Request.Context(), id, claims.OrganizationID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, guidance)
}

func (h *Handler) ListGuidance(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	records, err := h.clinicalData.ListGuidance(c.Request.Context(), id, claims.OrganizationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, records)
}

func (h *Handler) GetReport(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	built, err := h.reports.BuildPatientReport(c.Request.Context(), claims.OrganizationID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, built)
}

type emailReportRequest struct {
	To string `json:"to" binding:"required,email"`
}

func (h *Handler) EmailReport(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req emailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	built, err := h.reports.BuildPatientReport(c.Request.Context(), claims.OrganizationID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.email.SendPatientReport(c.Request.Context(), req.To, built); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"sent_to": req.To})
}

func (h *Handler) GenerateSummary(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.GenerateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	artifact, err := h.summaries.GeneratePatientSummary(c.Request.Context(), summary.SummaryRequest{
		OrganizationID: claims.OrganizationID,
		PatientID:      id,
		ProfessionalID: claims.ProfessionalID,
		Type:           req.Type,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
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

	artifacts, err := h.summaries.ListPatientSummaries(c.Request.Context(), claims.OrganizationID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, artifacts)
}

func (h *Handler) SuggestDiagnoses(c *gin.Context) {
	claims, id, ok := requestScope(c)
	if !ok {
		return
	}

	suggestions, err := h.summaries.SuggestDiagnoses(c.Request.Context(), claims.OrganizationID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, suggestions)
}
