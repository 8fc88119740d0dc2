package model

// Role 用户角色，封闭枚举
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Level 角色等级，用于偏序比较（member < admin < superadmin）
func (r Role) Level() int {
	switch r {
	case RoleMember:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r.Level() > 0
}

// AtLeast 当前角色是否不低于 min
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}

func (r Role) String() string { return string(r) }
