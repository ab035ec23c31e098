package segment

import (
	"encoding/json"

	"crm-segments/internal/domain"
)

// envelope 部分 CRM 接口把列表包在 {results:[...]} 或 {data:[...]} 里
type envelope struct {
	Results json.RawMessage `json:"results"`
	Data    json.RawMessage `json:"data"`
}

// Normalize 把后端响应体适配为有序客户序列
// 接受三种形态：裸数组 / {results:[...]} / {data:[...]}
// 其它任何形态（包括非法 JSON）都返回空序列，从不报错
func Normalize(raw []byte) []domain.CustomerRecord {
	if len(raw) == 0 {
		return []domain.CustomerRecord{}
	}

	if records, ok := decodeRecords(raw); ok {
		return records
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if records, ok := decodeRecords(env.Results); ok {
			return records
		}
		if records, ok := decodeRecords(env.Data); ok {
			return records
		}
	}

	return []domain.CustomerRecord{}
}

func decodeRecords(raw []byte) ([]domain.CustomerRecord, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var records []domain.CustomerRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	if records == nil {
		return nil, false
	}
	for i := range records {
		records[i].Tags = dedupTagsBySlug(records[i].Tags)
	}
	return records, true
}

// dedupTagsBySlug 同一 slug 只保留首次出现（ingestion 层负责去重）
func dedupTagsBySlug(tags []domain.Tag) []domain.Tag {
	if len(tags) == 0 {
		return []domain.Tag{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if t.Slug != "" {
			if _, dup := seen[t.Slug]; dup {
				continue
			}
			seen[t.Slug] = struct{}{}
		}
		out = append(out, t)
	}
	return out
}
