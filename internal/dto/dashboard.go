package dto

// ── 仪表盘 DTO ──

// DashboardStatsResponse 全局计数统计
type DashboardStatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalTrainings   int64 `json:"total_trainings"`
	TotalEvents      int64 `json:"total_events"`
	TotalFlagRecords int64 `json:"total_flag_records"`
}

// PendingItemsResponse 管理端待办事项
type PendingItemsResponse struct {
	PendingFlagRecords []FlagRecordResponse `json:"pending_flag_records"`
	PendingTrainings   []TrainingResponse   `json:"pending_trainings"` // 已结束但未考勤发分
}

// UploadResponse 文件上传响应
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
