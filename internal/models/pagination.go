package models

// BackendPagination 与 crmFront 的分页模型保持一致
type BackendPagination struct {
	Size       int    `json:"size"`
	Page       int    `json:"page"`
	Count      int    `json:"count"`
	TotalPages int    `json:"total_pages"`
	Sort       string `json:"sort"`
}
