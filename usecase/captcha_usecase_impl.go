package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"social-chat-api/apperror"
	"social-chat-api/dto/req"
	"social-chat-api/enum"
	"social-chat-api/mailer"
	"social-chat-api/security"
)

const mailTimeout = 30 * time.Second

var captchaSubjects = map[enum.CaptchaPurpose]string{
	enum.CaptchaRegister:       "Registration verification code",
	enum.CaptchaUpdatePassword: "Password change verification code",
	enum.CaptchaUpdateUser:     "Profile update verification code",
}

type CaptchaUsecaseImpl struct {
	Codes *security.VerificationCode
	mailer.Mailer
	*validator.Validate
	*logrus.Logger
}

func NewCaptchaUsecase(codes *security.VerificationCode, mail mailer.Mailer, validate *validator.Validate, logger *logrus.Logger) CaptchaUsecase {
	return &CaptchaUsecaseImpl{Codes: codes, Mailer: mail, Validate: validate, Logger: logger}
}

// SendCaptcha stores a fresh code and mails it in the background. A delivery
// failure is logged and never reported to the caller.
func (uc *CaptchaUsecaseImpl) SendCaptcha(ctx context.Context, purpose enum.CaptchaPurpose, request *req.CaptchaRequest) error {
	if !purpose.Valid() {
		return apperror.Validation("unknown verification code purpose")
	}
	if err := validateRequest(uc.Validate, request); err != nil {
		return err
	}

	code, err := uc.Codes.Issue(ctx, purpose, request.Address)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to issue %s code", purpose)
		return err
	}

	address, subject := request.Address, captchaSubjects[purpose]
	body := fmt.Sprintf("<p>Your verification code is %s. It expires in 5 minutes.</p>", code)
	go func() {
		// the request context is recycled once the handler returns
		mailCtx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := uc.Mailer.SendMail(mailCtx, address, subject, body); err != nil {
			uc.Logger.WithError(err).Errorf("failed to mail %s code to %s", purpose, address)
		}
	}()

	uc.Logger.Infof("issued %s code for %s", purpose, request.Address)
	return nil
}
