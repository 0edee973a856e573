package models

type LoginRequest struct {
	Username     string `json:"username"`
	UserPassword string `json:"userPassword"`
}

type AuthResponse struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	TokenType          string `json:"tokenType"`
	ExpireAt           int64  `json:"expireAt"`
	Username           string `json:"username"`
	UserRole           string `json:"userRole"`
	MustChangePassword bool   `json:"mustChangePassword"`

	// Some deployments flag an empty user table on the login response.
	FirstTime bool `json:"firstTime"`
}

type PasswordChange struct {
	NewPassword string `json:"newPassword"`
}

// Message is the generic {"message": "..."} body the backend uses for both
// successes and failures.
type Message struct {
	Message string `json:"message"`
}
