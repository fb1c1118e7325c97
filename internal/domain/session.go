package domain

type Role string

const (
	RoleSuperUser Role = "super_user"
	RoleAdminUser Role = "admin_user"
	RoleTestUser  Role = "test_user"
)

type Whitelabel struct {
	Logo  string `json:"logo" yaml:"logo"`
	Theme string `json:"theme" yaml:"theme"`
}

// Session is the identity attached to a login token.
type Session struct {
	Username   string      `json:"username"`
	Role       Role        `json:"role"`
	Company    *string     `json:"company"`
	Whitelabel *Whitelabel `json:"whitelabel"`
}
