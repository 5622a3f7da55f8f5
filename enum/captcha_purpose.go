package enum

// CaptchaPurpose scopes a verification code. The value is used as the cache key prefix.
type CaptchaPurpose string

const (
	CaptchaRegister       CaptchaPurpose = "captcha"
	CaptchaUpdatePassword CaptchaPurpose = "update_password_captcha"
	CaptchaUpdateUser     CaptchaPurpose = "update_user_captcha"
)

func (p CaptchaPurpose) Valid() bool {
	switch p {
	case CaptchaRegister, CaptchaUpdatePassword, CaptchaUpdateUser:
		return true
	}
	return false
}
