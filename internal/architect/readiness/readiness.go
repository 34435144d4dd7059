// Package readiness 评估一轮对话是否可以进入产物生成
//
// 五条准则各占 0.20，合计 1.00。score >= 0.80 即就绪；未就绪时按
// 准则表顺序返回第一条未满足准则对应的下一问题，保证提问顺序稳定。
package readiness

import (
	"fmt"
	"strings"

	"arquitecto/internal/shared/model"
)

// criterionWeight 单条准则的权重
const criterionWeight = 0.20

// minUserTurns 会话深度准则要求的最少用户消息数
const minUserTurns = 4

// criterionOrder 准则表顺序：既是提问顺序也是状态摘要顺序
var criterionOrder = []model.Criterion{
	model.CriterionNamePresent,
	model.CriterionTypeDetermined,
	model.CriterionServicesIdentified,
	model.CriterionRequirementsGathered,
	model.CriterionConversationDepth,
}

// nextQuestions 每条准则未满足时的下一问题
var nextQuestions = map[model.Criterion]string{
	model.CriterionNamePresent:          "Como se llama el proyecto?",
	model.CriterionTypeDetermined:       "Es una solucion integral (migracion, aplicacion nueva, plataforma) o un servicio rapido (una instancia, un bucket, una VPN)?",
	model.CriterionServicesIdentified:   "Que servicios de AWS necesitas o que componentes tendra la solucion?",
	model.CriterionRequirementsGathered: "Que requisitos no funcionales necesitas: alta disponibilidad, seguridad, respaldos, escalamiento?",
	model.CriterionConversationDepth:    "Cuentame mas detalles: region de despliegue, volumen de usuarios, presupuesto o plazos.",
}

// missingLabels 状态摘要里每条准则的短标签
var missingLabels = map[model.Criterion]string{
	model.CriterionNamePresent:          "nombre",
	model.CriterionTypeDetermined:       "tipo",
	model.CriterionServicesIdentified:   "servicios",
	model.CriterionRequirementsGathered: "requisitos",
	model.CriterionConversationDepth:    "detalle de conversacion",
}

// Evaluate 对消息历史与提取草稿计算就绪度
func Evaluate(messages []model.Message, draft model.ProjectDraft) model.Readiness {
	criteria := map[model.Criterion]bool{
		model.CriterionNamePresent:          draft.HasName(),
		model.CriterionTypeDetermined:       draft.Type == model.TypeIntegral || draft.Type == model.TypeQuickService,
		model.CriterionServicesIdentified:   len(draft.Services) >= 1,
		model.CriterionRequirementsGathered: len(draft.Requirements) >= 1,
		model.CriterionConversationDepth:    model.UserTurnCount(messages) >= minUserTurns,
	}

	var score float64
	var missing []string
	for _, c := range criterionOrder {
		if criteria[c] {
			score += criterionWeight
		} else {
			missing = append(missing, missingLabels[c])
		}
	}

	r := model.Readiness{
		Score:    score,
		Criteria: criteria,
		Ready:    score >= model.ReadyThreshold,
	}

	if r.Ready {
		r.Status = "listo para generar documentos"
		return r
	}

	for _, c := range criterionOrder {
		if !criteria[c] {
			r.NextQuestion = nextQuestions[c]
			break
		}
	}
	r.Status = fmt.Sprintf("falta: %s", strings.Join(missing, ", "))
	return r
}
