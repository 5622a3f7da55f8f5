package req

type UpdatePasswordRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Captcha  string `json:"captcha" validate:"required"`
}

// UpdateUserRequest leaves a field untouched when it is empty.
type UpdateUserRequest struct {
	HeadPic  string `json:"headPic" validate:"omitempty,max=255"`
	NickName string `json:"nickName" validate:"omitempty,max=50"`
	Captcha  string `json:"captcha" validate:"required"`
}
