package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
	Role    string `form:"role"    binding:"omitempty,oneof=member admin superadmin"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=created_at total_points name"`
	Order   string `form:"order"   binding:"omitempty,oneof=asc desc"`
}

// UserSearchRequest 用户搜索参数（限量返回摘要）
type UserSearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=50"`
}

// UpdateProfileRequest 个人资料更新请求（仅身体数据可自助修改）
type UpdateProfileRequest struct {
	Height   *float64 `json:"height"    binding:"omitempty,gt=0,lt=300"`
	Weight   *float64 `json:"weight"    binding:"omitempty,gt=0,lt=500"`
	ShoeSize *float64 `json:"shoe_size" binding:"omitempty,gt=0,lt=100"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Username    string `json:"username"     binding:"required,min=3,max=50"`
	Password    string `json:"password"     binding:"required,min=8,max=20"`
	Name        string `json:"name"         binding:"required,min=2,max=50"`
	StudentID   string `json:"student_id"   binding:"required"`
	College     string `json:"college"      binding:"required,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty"`
	Role        string `json:"role"         binding:"omitempty,oneof=member admin"`
}

// UpdateUserRequest 管理员更新用户请求
type UpdateUserRequest struct {
	Name        *string  `json:"name"         binding:"omitempty,min=2,max=50"`
	College     *string  `json:"college"      binding:"omitempty,max=100"`
	PhoneNumber *string  `json:"phone_number" binding:"omitempty"`
	Height      *float64 `json:"height"       binding:"omitempty,gt=0,lt=300"`
	Weight      *float64 `json:"weight"       binding:"omitempty,gt=0,lt=500"`
	ShoeSize    *float64 `json:"shoe_size"    binding:"omitempty,gt=0,lt=100"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=member admin superadmin"`
}
