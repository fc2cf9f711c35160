package auth

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UpdateMeRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
