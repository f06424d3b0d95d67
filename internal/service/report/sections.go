package report

import (
	"fmt"
	"strings"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
)

// Section titles and the truncation limits that are part of the report
// contract: one anthropometry record, ten lab results, five consultations,
// the single active plan, the single most recent guidance.
const (
	titlePatientData   = "Dados do Paciente"
	titleAnthropometry = "Antropometria"
	titleLabResults    = "Exames Laboratoriais"
	titleConsultations = "Histórico de Consultas"
	titleActivePlan    = "Plano Alimentar Ativo"
	titleGuidance      = "Orientações Gerais"

	maxLabResults    = 10
	maxConsultations = 5

	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// patientDataSection is always present, built purely from the patient record.
func patientDataSection(patient *model.Patient) model.ReportSection {
	lines := []string{
		"Nome: " + patient.Name,
		"Data de nascimento: " + patient.BirthDate.Format(dateLayout),
		"Sexo: " + patient.Sex.Label(),
	}
	if patient.Email != nil && *patient.Email != "" {
		lines = append(lines, "E-mail: "+*patient.Email)
	}
	if patient.Phone != nil && *patient.Phone != "" {
		lines = append(lines, "Telefone: "+*patient.Phone)
	}
	return model.ReportSection{Title: titlePatientData, Content: strings.Join(lines, "\n")}
}

// anthropometrySection renders only the most recent record. An empty history
// yields no section; a non-empty history with a missing head violates the
// newest-first invariant and aborts the report.
func anthropometrySection(records []*model.AnthropometryRecord) (*model.ReportSection, error) {
	if len(records) == 0 {
		return nil, nil
	}
	latest := records[0]
	if latest == nil {
		return nil, errors.DataIntegrity("anthropometry history is non-empty but has no most recent record")
	}

	lines := []string{"Data: " + latest.Date.Format(dateLayout)}
	if latest.Weight != nil {
		lines = append(lines, fmt.Sprintf("Peso: %.1f kg", *latest.Weight))
	}
	if latest.Height != nil {
		lines = append(lines, fmt.Sprintf("Altura: %.2f m", *latest.Height))
	}
	if latest.BMI != nil {
		lines = append(lines, fmt.Sprintf("IMC: %.1f", *latest.BMI))
	}
	if latest.WaistCircumf != nil {
		lines = append(lines, fmt.Sprintf("Circunferência da cintura: %.1f cm", *latest.WaistCircumf))
	}
	if latest.HipCircumf != nil {
		lines = append(lines, fmt.Sprintf("Circunferência do quadril: %.1f cm", *latest.HipCircumf))
	}
	if latest.ArmCircumf != nil {
		lines = append(lines, fmt.Sprintf("Circunferência do braço: %.1f cm", *latest.ArmCircumf))
	}
	if latest.Notes != nil && *latest.Notes != "" {
		lines = append(lines, "Observações: "+*latest.Notes)
	}

	return &model.ReportSection{Title: titleAnthropometry, Content: strings.Join(lines, "\n")}, nil
}

// labResultsSection renders up to ten most recent results, one line each.
func labResultsSection(results []*model.LabResult) *model.ReportSection {
	if len(results) == 0 {
		return nil
	}
	if len(results) > maxLabResults {
		results = results[:maxLabResults]
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		line := fmt.Sprintf("%s - %s: %s", r.Date.Format(dateLayout), r.Name, r.Value.String())
		if r.Unit != nil && *r.Unit != "" {
			line += " " + *r.Unit
		}
		if r.ReferenceRange != nil && *r.ReferenceRange != "" {
			line += fmt.Sprintf(" (Referência: %s)", *r.ReferenceRange)
		}
		lines = append(lines, line)
	}

	return &model.ReportSection{Title: titleLabResults, Content: strings.Join(lines, "\n")}
}

// consultationsSection renders up to five most recent consultations as
// blocks separated by a blank line.
func consultationsSection(consultations []*model.Consultation) *model.ReportSection {
	if len(consultations) == 0 {
		return nil
	}
	if len(consultations) > maxConsultations {
		consultations = consultations[:maxConsultations]
	}

	blocks := make([]string, 0, len(consultations))
	for _, c := range consultations {
		lines := []string{fmt.Sprintf("%s - %s", c.Date.Format(dateTimeLayout), c.Type.Label())}
		if c.MainComplaint != nil && *c.MainComplaint != "" {
			lines = append(lines, "Queixa: "+*c.MainComplaint)
		}
		if c.Diagnosis != nil && *c.Diagnosis != "" {
			lines = append(lines, "Diagnóstico: "+*c.Diagnosis)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return &model.ReportSection{Title: titleConsultations, Content: strings.Join(blocks, "\n\n")}
}

// activePlanSection renders the currently active plan, when one exists.
func activePlanSection(plan *model.NutritionPlan) *model.ReportSection {
	if plan == nil {
		return nil
	}

	lines := []string{plan.Title}
	if plan.Goals != nil && *plan.Goals != "" {
		lines = append(lines, "Objetivos: "+*plan.Goals)
	}
	for _, meal := range plan.Meals {
		block := meal.Type.Label() + ":\n" + meal.Description
		if meal.Observation != nil && *meal.Observation != "" {
			block += "\nObs: " + *meal.Observation
		}
		lines = append(lines, block)
	}
	if plan.Notes != nil && *plan.Notes != "" {
		lines = append(lines, "Observações: "+*plan.Notes)
	}

	return &model.ReportSection{Title: titleActivePlan, Content: strings.Join(lines, "\n")}
}

// guidanceSection renders the most recent guidance record, one paragraph per
// non-null category.
func guidanceSection(guidance *model.Guidance) *model.ReportSection {
	if guidance == nil {
		return nil
	}

	var lines []string
	if guidance.Hydration != nil && *guidance.Hydration != "" {
		lines = append(lines, "Hidratação: "+*guidance.Hydration)
	}
	if guidance.PhysicalActivity != nil && *guidance.PhysicalActivity != "" {
		lines = append(lines, "Atividade física: "+*guidance.PhysicalActivity)
	}
	if guidance.Sleep != nil && *guidance.Sleep != "" {
		lines = append(lines, "Sono: "+*guidance.Sleep)
	}
	if guidance.SymptomManagement != nil && *guidance.SymptomManagement != "" {
		lines = append(lines, "Manejo de sintomas: "+*guidance.SymptomManagement)
	}
	if guidance.Notes != nil && *guidance.Notes != "" {
		lines = append(lines, "Observações: "+*guidance.Notes)
	}
	if len(lines) == 0 {
		return nil
	}

	return &model.ReportSection{Title: titleGuidance, Content: strings.Join(lines, "\n")}
}
