// Package extract 从对话历史推断结构化项目参数
//
// 提取管道是消息历史上的纯函数：拼接小写语料后逐字段提取，
// 同一输入必然得到同一输出。不依赖网络，可随时重算。
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"arquitecto/internal/shared/model"
)

// Extract 对完整消息历史执行参数提取
func Extract(messages []model.Message) model.ProjectDraft {
	corpus := model.JoinCorpus(messages)

	draft := model.ProjectDraft{
		Name:   extractName(corpus, messages),
		Type:   extractType(corpus),
		Region: extractRegion(corpus),
	}

	draft.ArchitectureStyle = extractStyle(corpus)
	draft.Services = ensureServices(detectServices(corpus), draft.ArchitectureStyle)
	draft.Requirements = extractRequirements(corpus)
	draft.ScaleHint = extractScale(corpus)
	draft.BudgetHint = extractBudget(corpus)
	draft.TimelineHint = extractTimeline(corpus)

	draft.InstanceType = extractInstanceType(corpus)
	draft.OS = extractOS(corpus)
	draft.StorageGB = extractStorageGB(corpus)

	draft.Description = fmt.Sprintf("Implementacion de %s usando %s en AWS",
		draft.Name, strings.Join(draft.TopServices(3), ", "))

	return draft
}

// extractName 按模式表提取名称，失败时回落到首条短用户消息
func extractName(corpus string, messages []model.Message) string {
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(corpus)
		if m == nil {
			continue
		}
		name := trimName(m[1])
		if len(name) >= minNameLen {
			return name
		}
	}

	// 回落：第一条内容不超过 5 个词的用户消息
	for _, msg := range messages {
		if msg.Role != model.RoleUser || msg.IsEmpty() {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if len(strings.Fields(content)) <= 5 && len(content) >= minNameLen {
			return content
		}
	}

	return model.DefaultProjectName
}

// trimName 截断到首个标点或首个连接词
func trimName(raw string) string {
	if i := strings.IndexAny(raw, ".,;:\n"); i >= 0 {
		raw = raw[:i]
	}
	words := strings.Fields(raw)
	for i, w := range words {
		if i > 0 && nameTrailingStop[w] {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

func extractType(corpus string) model.ProjectType {
	if containsAny(corpus, integralKeywords) {
		return model.TypeIntegral
	}
	if containsAny(corpus, quickServiceKeywords) {
		return model.TypeQuickService
	}
	return model.TypeUnknown
}

func extractStyle(corpus string) model.ArchitectureStyle {
	for _, entry := range styleKeywords {
		if containsAny(corpus, entry.keywords) {
			return entry.style
		}
	}
	return model.StyleStandard
}

func extractRequirements(corpus string) []string {
	var reqs []string
	for _, rule := range requirementRules {
		if containsAny(corpus, rule.keywords) {
			reqs = append(reqs, rule.canonical)
		}
	}
	return reqs
}

func extractRegion(corpus string) string {
	for _, rule := range regionRules {
		if containsAny(corpus, rule.keywords) {
			return rule.region
		}
	}
	return DefaultRegion
}

func extractScale(corpus string) string {
	if m := scalePattern.FindStringSubmatch(corpus); m != nil {
		return m[1] + " usuarios"
	}
	return ""
}

func extractBudget(corpus string) string {
	if m := budgetPattern.FindStringSubmatch(corpus); m != nil {
		amount := m[1]
		if amount == "" {
			amount = m[2]
		}
		return amount + " USD"
	}
	return ""
}

func extractTimeline(corpus string) string {
	if m := timelinePattern.FindStringSubmatch(corpus); m != nil {
		return m[1] + " " + m[2]
	}
	return ""
}

func extractInstanceType(corpus string) string {
	if m := instanceTypePattern.FindStringSubmatch(corpus); m != nil {
		return m[1]
	}
	return ""
}

func extractOS(corpus string) string {
	for _, rule := range osKeywords {
		if containsAny(corpus, rule.keywords) {
			return rule.os
		}
	}
	return ""
}

// extractStorageGB 检测存储容量，TB 换算为 GB
func extractStorageGB(corpus string) int {
	m := storagePattern.FindStringSubmatch(corpus)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if m[2] == "tb" {
		n *= 1000
	}
	return n
}

func containsAny(corpus string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(corpus, k) {
			return true
		}
	}
	return false
}
