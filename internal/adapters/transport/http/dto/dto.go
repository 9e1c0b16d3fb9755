package dto

type RegisterDTO struct {
	Username        string `json:"username"         validate:"required,min=3,max=50"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,strongpwd"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	DateOfBirth     string `json:"date_of_birth"    validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutDTO struct {
	AccessToken  string `json:"access_token"  validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type VerifyEmailDTO struct {
	EmailVerifyToken string `json:"email_verify_token" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyForgotPasswordDTO struct {
	ForgotPasswordToken string `json:"forgot_password_token" validate:"required"`
}

type ResetPasswordDTO struct {
	ForgotPasswordToken string `json:"forgot_password_token" validate:"required"`
	Password            string `json:"password"              validate:"required,strongpwd"`
	ConfirmPassword     string `json:"confirm_password"      validate:"required,eqfield=Password"`
}

// UpdateMeDTO carries a partial patch; nil fields are left untouched.
type UpdateMeDTO struct {
	Username    *string `json:"username"      validate:"omitempty,min=3,max=50"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty"`
	Bio         *string `json:"bio"           validate:"omitempty,max=200"`
	Location    *string `json:"location"      validate:"omitempty,max=200"`
	Website     *string `json:"website"       validate:"omitempty,max=200"`
	Avatar      *string `json:"avatar"        validate:"omitempty,max=400"`
	CoverPhoto  *string `json:"cover_photo"   validate:"omitempty,max=400"`
}

type FollowDTO struct {
	FollowedUserID string `json:"followed_user_id" validate:"required"`
}
