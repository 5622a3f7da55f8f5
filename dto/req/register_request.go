package req

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	NickName string `json:"nickName" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Captcha  string `json:"captcha" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CaptchaRequest struct {
	Address string `query:"address" validate:"required,email"`
}
