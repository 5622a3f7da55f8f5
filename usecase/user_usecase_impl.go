package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"social-chat-api/apperror"
	"social-chat-api/dto/req"
	"social-chat-api/dto/res"
	"social-chat-api/entity"
	"social-chat-api/enum"
	"social-chat-api/repository"
	"social-chat-api/security"
	"social-chat-api/util"
)

var (
	errUserNotExist = apperror.Validation("user does not exist")
	errWrongPass    = apperror.Validation("wrong password")
)

type UserUsecaseImpl struct {
	*repository.UserRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger
	*security.JWT
	Codes *security.VerificationCode
}

func NewUserUsecase(userRepository *repository.UserRepository, validate *validator.Validate, DB *gorm.DB, logger *logrus.Logger, JWT *security.JWT, codes *security.VerificationCode) UserUsecase {
	return &UserUsecaseImpl{UserRepository: userRepository, Validate: validate, DB: DB, Logger: logger, JWT: JWT, Codes: codes}
}

func (uc *UserUsecaseImpl) Register(ctx context.Context, request *req.RegisterRequest) (res.UserResponse, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return res.UserResponse{}, err
	}
	if err := uc.Codes.Check(ctx, enum.CaptchaRegister, request.Email, request.Captcha); err != nil {
		uc.Logger.WithError(err).Warnf("registration code rejected for %s", request.Email)
		return res.UserResponse{}, err
	}

	exists, err := uc.UserRepository.ExistsByUsername(ctx, uc.DB, request.Username)
	if err != nil {
		uc.Logger.WithError(err).Error("failed to look up username")
		return res.UserResponse{}, apperror.Internal("failed to register user", err)
	}
	if exists {
		return res.UserResponse{}, apperror.Validation("user already exists")
	}

	hashPassword, err := util.HashPassword(request.Password)
	if err != nil {
		return res.UserResponse{}, apperror.Internal("failed to register user", err)
	}
	newUser := &entity.User{
		Username: request.Username,
		Password: hashPassword,
		NickName: request.NickName,
		Email:    request.Email,
	}
	if err := uc.UserRepository.Save(ctx, uc.DB, newUser); err != nil {
		uc.Logger.WithError(err).Errorf("failed to save user %s", request.Username)
		return res.UserResponse{}, apperror.Internal("failed to register user", err)
	}

	uc.Logger.Infof("registered user %s with id %s", newUser.Username, newUser.ID)
	return res.NewUserResponse(newUser), nil
}

func (uc *UserUsecaseImpl) Login(ctx context.Context, request *req.LoginRequest) (res.LoginResponse, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return res.LoginResponse{}, err
	}

	user, err := uc.UserRepository.FindByUsername(ctx, uc.DB, request.Username)
	if err != nil {
		if isNotFound(err) {
			return res.LoginResponse{}, errUserNotExist
		}
		uc.Logger.WithError(err).Error("failed to find user")
		return res.LoginResponse{}, apperror.Internal("failed to login", err)
	}
	if !util.ComparePassword(user.Password, request.Password) {
		return res.LoginResponse{}, errWrongPass
	}

	token, err := uc.JWT.GenerateToken(user)
	if err != nil {
		uc.Logger.WithError(err).Error("failed to generate token")
		return res.LoginResponse{}, apperror.Internal("failed to login", err)
	}
	return res.LoginResponse{User: res.NewUserResponse(user), Token: token}, nil
}

func (uc *UserUsecaseImpl) Info(ctx context.Context, userID string) (res.UserResponse, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return res.UserResponse{}, err
	}
	return res.NewUserResponse(user), nil
}

func (uc *UserUsecaseImpl) UpdatePassword(ctx context.Context, request *req.UpdatePasswordRequest) error {
	if err := validateRequest(uc.Validate, request); err != nil {
		return err
	}
	if err := uc.Codes.Check(ctx, enum.CaptchaUpdatePassword, request.Email, request.Captcha); err != nil {
		return err
	}

	user, err := uc.UserRepository.FindByUsername(ctx, uc.DB, request.Username)
	if err != nil {
		if isNotFound(err) {
			return errUserNotExist
		}
		return apperror.Internal("failed to update password", err)
	}
	// the code proves control of the mailbox, so it has to be the account's mailbox
	if user.Email != request.Email {
		return apperror.Validation("email does not match the account")
	}

	hashPassword, err := util.HashPassword(request.Password)
	if err != nil {
		return apperror.Internal("failed to update password", err)
	}
	user.Password = hashPassword
	if err := uc.UserRepository.Update(ctx, uc.DB, user); err != nil {
		uc.Logger.WithError(err).Errorf("failed to update password for %s", user.ID)
		return apperror.Internal("failed to update password", err)
	}
	uc.Logger.Infof("password updated for user %s", user.ID)
	return nil
}

func (uc *UserUsecaseImpl) Update(ctx context.Context, userID string, request *req.UpdateUserRequest) (res.UserResponse, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return res.UserResponse{}, err
	}
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return res.UserResponse{}, err
	}
	if err := uc.Codes.Check(ctx, enum.CaptchaUpdateUser, user.Email, request.Captcha); err != nil {
		return res.UserResponse{}, err
	}

	if request.NickName != "" {
		user.NickName = request.NickName
	}
	if request.HeadPic != "" {
		user.HeadPic = request.HeadPic
	}
	if err := uc.UserRepository.Update(ctx, uc.DB, user); err != nil {
		uc.Logger.WithError(err).Errorf("failed to update user %s", user.ID)
		return res.UserResponse{}, apperror.Internal("failed to update user", err)
	}
	return res.NewUserResponse(user), nil
}

func (uc *UserUsecaseImpl) findUser(ctx context.Context, userID string) (*entity.User, error) {
	var user entity.User
	if err := uc.UserRepository.FindById(ctx, uc.DB, &user, userID); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user does not exist")
		}
		uc.Logger.WithError(err).Errorf("failed to find user %s", userID)
		return nil, apperror.Internal("failed to find user", err)
	}
	return &user, nil
}
