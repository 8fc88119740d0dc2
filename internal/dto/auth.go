package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 学号、手机号格式在 service 层用正则校验
type RegisterRequest struct {
	Username    string `json:"username"     binding:"required,min=3,max=50"`
	Password    string `json:"password"     binding:"required,min=8,max=20"`
	Name        string `json:"name"         binding:"required,min=2,max=50"`
	StudentID   string `json:"student_id"   binding:"required"`
	College     string `json:"college"      binding:"required,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=20"`
}
