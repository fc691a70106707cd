package dto

import "time"

// AdminLoginRequest is the handler login body.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ReportLoginRequest is the reporter login body. The case code is the login
// name.
type ReportLoginRequest struct {
	CaseCode string `json:"case_code"`
	Secret   string `json:"secret"`
}

// AdminLoginResponse carries the admin token and profile.
type AdminLoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Admin     AdminUserResponse `json:"admin"`
}

// ReportLoginResponse carries the report token and case status.
type ReportLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CaseCode  string    `json:"case_code"`
	Status    string    `json:"status"`
}
