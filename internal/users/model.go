package users

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateRequest struct {
	Username           string `json:"username" validate:"required,min=3"`
	Password           string `json:"password" validate:"required,min=6"`
	Role               string `json:"role" validate:"omitempty,oneof=admin viewer"`
	CanAccessPortfolio bool   `json:"can_access_portfolio"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
