package summary

import (
	"github.com/nutrivo/practice-api/internal/model"
)

// Instructional headers handed to the generation provider. The header is the
// only thing a summary mode changes; the clinical payload is identical across
// patient modes.
const (
	promptWeeklyOverview = "Você é um assistente clínico de um consultório de nutrição. " +
		"Com base nos dados estruturados fornecidos, escreva um resumo da evolução recente do paciente, " +
		"destacando mudanças de peso e IMC, adesão ao plano alimentar e pontos de atenção para a próxima semana. " +
		"Escreva em português, em tom profissional e objetivo, sem inventar dados que não estejam no payload."

	promptFullHistory = "Você é um assistente clínico de um consultório de nutrição. " +
		"Com base nos dados estruturados fornecidos, escreva um panorama completo do histórico do paciente: " +
		"perfil, diagnósticos relevantes, evolução antropométrica, exames laboratoriais e condutas adotadas. " +
		"Organize o texto em parágrafos curtos, em português, sem inventar dados que não estejam no payload."

	promptPreConsult = "Você é um assistente clínico de um consultório de nutrição. " +
		"Prepare um briefing de pré-consulta com os pontos que o profissional deve revisar antes do atendimento: " +
		"queixas recentes, tendências de peso e IMC, exames alterados e pendências do plano alimentar. " +
		"Seja conciso, em português, sem inventar dados que não estejam no payload."

	promptProgramOverview = "Você é um assistente clínico de um consultório de nutrição. " +
		"Com base nos dados estruturados do programa em grupo, escreva uma visão geral da evolução do grupo: " +
		"frequência, mudanças médias de peso e IMC e temas abordados nos encontros. " +
		"Escreva em português, sem inventar dados que não estejam no payload."

	promptMeetingSummary = "Você é um assistente clínico de um consultório de nutrição. " +
		"Com base nos dados estruturados fornecidos, escreva um resumo do encontro do programa em grupo: " +
		"presenças, registros coletados e observações relevantes. " +
		"Escreva em português, sem inventar dados que não estejam no payload."

	promptDiagnosisSuggestions = "Você é um assistente de nutrição clínica. Com base nos dados fornecidos, " +
		"sugira de 1 a 4 diagnósticos nutricionais no formato PES (Problema, Etiologia, Sinais/Sintomas). " +
		`Responda SOMENTE com um array JSON válido neste formato: ` +
		`[{"title": string, "pesFormat": string, "rationale": string}]. ` +
		"Não inclua texto fora do JSON e não invente dados que não estejam no payload."
)

func instructionsFor(summaryType model.SummaryType) string {
	switch summaryType {
	case model.SummaryWeeklyOverview:
		return promptWeeklyOverview
	case model.SummaryFullHistory:
		return promptFullHistory
	default:
		return promptPreConsult
	}
}

func programInstructionsFor(mode model.ProgramSummaryMode) string {
	if mode == model.MeetingSummary {
		return promptMeetingSummary
	}
	return promptProgramOverview
}
