package utils

import "strings"

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由业务自定义；stylekit 只提供标准化的合并规则。
// 典型用法：召回源标记（recall_source）、补位标记（backfill）、重排标记（rerank）。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank / postprocess ...
}

// NewLabel 构造一个 Label，便于在节点内一行写入。
func NewLabel(value, source string) Label {
	return Label{Value: value, Source: source}
}

// First 返回累积 Value 中的第一个值（按 '|' 切分）。
func (l Label) First() string {
	if i := strings.IndexByte(l.Value, '|'); i >= 0 {
		return l.Value[:i]
	}
	return l.Value
}

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
//
// 如果需要更复杂的优先级/覆盖规则，可以在上层封装自己的 merge 策略。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
