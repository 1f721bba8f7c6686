// AngelaMos | 2026
// dto.go

package account

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=1,max=128"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// backendPasswordChange is the body the backend's change-password endpoint
// expects.
type backendPasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type SidebarPreference struct {
	Collapsed bool `json:"collapsed"`
}

type SidebarPreferenceRequest struct {
	Collapsed *bool `json:"collapsed" validate:"required"`
}
