package models

type User struct {
	Username    string  `json:"username"`
	UserEmail   string  `json:"userEmail"`
	UserRole    string  `json:"userRole"`
	UserContact string  `json:"userContact"`
	UserSalary  float64 `json:"userSalary"`
}

func (u *User) Role() Role {
	return ParseRole(u.UserRole)
}

// Registration is the body of both admin registration and first-time setup.
type Registration struct {
	Username     string  `json:"username"`
	UserEmail    string  `json:"userEmail,omitempty"`
	UserPassword string  `json:"userPassword"`
	UserRole     Role    `json:"userRole"`
	UserContact  string  `json:"userContact,omitempty"`
	UserSalary   float64 `json:"userSalary,omitempty"`
}
