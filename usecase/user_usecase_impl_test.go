package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"social-chat-api/apperror"
	"social-chat-api/dto/req"
	"social-chat-api/entity"
	"social-chat-api/repository"
	"social-chat-api/security"
	"social-chat-api/util"
)

func newUserUsecase(t *testing.T) (UserUsecase, *gorm.DB, *miniredis.Miniredis, *security.JWT) {
	t.Helper()
	db := newTestDB(t)
	codes, mr := newTestCodes(t)
	tokens := security.NewJWTWithSecret([]byte("usecase-secret"), security.DefaultTokenTTL)
	uc := NewUserUsecase(repository.NewUserRepository(), testValidate, db, newTestLogger(), tokens, codes)
	return uc, db, mr, tokens
}

func TestRegister(t *testing.T) {
	uc, db, mr, _ := newUserUsecase(t)
	ctx := context.Background()
	request := &req.RegisterRequest{
		Username: "alice",
		NickName: "Alice",
		Password: "secret1",
		Email:    "alice@example.com",
		Captcha:  "123456",
	}

	_, err := uc.Register(ctx, request)
	assert.Equal(t, apperror.KindCodeExpired, apperror.KindOf(err))

	require.NoError(t, mr.Set("captcha_alice@example.com", "654321"))
	_, err = uc.Register(ctx, request)
	assert.Equal(t, apperror.KindCodeMismatch, apperror.KindOf(err))

	require.NoError(t, mr.Set("captcha_alice@example.com", "123456"))
	user, err := uc.Register(ctx, request)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.NickName)

	var stored entity.User
	require.NoError(t, db.Take(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, util.ComparePassword(stored.Password, "secret1"))

	_, err = uc.Register(ctx, request)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "user already exists", apperror.Message(err))
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _, _ := newUserUsecase(t)

	_, err := uc.Register(context.Background(), &req.RegisterRequest{Username: "alice", Email: "not-an-email"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestLogin(t *testing.T) {
	uc, db, _, tokens := newUserUsecase(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "alice@example.com", "secret1")

	_, err := uc.Login(ctx, &req.LoginRequest{Username: "nobody", Password: "secret1"})
	assert.Equal(t, "user does not exist", apperror.Message(err))

	_, err = uc.Login(ctx, &req.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, "wrong password", apperror.Message(err))

	login, err := uc.Login(ctx, &req.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, login.User.ID)

	claims, err := tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestInfo(t *testing.T) {
	uc, db, _, _ := newUserUsecase(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "alice@example.com", "secret1")

	info, err := uc.Info(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.Email)

	_, err = uc.Info(ctx, "missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdatePassword(t *testing.T) {
	uc, db, mr, _ := newUserUsecase(t)
	ctx := context.Background()
	seedUser(t, db, "alice", "alice@example.com", "secret1")
	seedUser(t, db, "mallory", "mallory@example.com", "secret1")
	require.NoError(t, mr.Set("update_password_captcha_mallory@example.com", "111111"))

	// mallory controls her own mailbox, not alice's
	err := uc.UpdatePassword(ctx, &req.UpdatePasswordRequest{
		Username: "alice", Password: "hijacked", Email: "mallory@example.com", Captcha: "111111",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = uc.UpdatePassword(ctx, &req.UpdatePasswordRequest{
		Username: "alice", Password: "secret2", Email: "alice@example.com", Captcha: "111111",
	})
	assert.Equal(t, apperror.KindCodeExpired, apperror.KindOf(err))

	require.NoError(t, mr.Set("update_password_captcha_alice@example.com", "222222"))
	require.NoError(t, uc.UpdatePassword(ctx, &req.UpdatePasswordRequest{
		Username: "alice", Password: "secret2", Email: "alice@example.com", Captcha: "222222",
	}))

	_, err = uc.Login(ctx, &req.LoginRequest{Username: "alice", Password: "secret1"})
	assert.Equal(t, "wrong password", apperror.Message(err))
	_, err = uc.Login(ctx, &req.LoginRequest{Username: "alice", Password: "secret2"})
	assert.NoError(t, err)
}

func TestUpdateChecksSessionUsersCode(t *testing.T) {
	uc, db, mr, _ := newUserUsecase(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "alice@example.com", "secret1")
	require.NoError(t, db.Model(alice).Update("head_pic", "old.png").Error)

	require.NoError(t, mr.Set("update_user_captcha_someone@example.com", "333333"))
	_, err := uc.Update(ctx, alice.ID, &req.UpdateUserRequest{NickName: "Ally", Captcha: "333333"})
	assert.Equal(t, apperror.KindCodeExpired, apperror.KindOf(err))

	require.NoError(t, mr.Set("update_user_captcha_alice@example.com", "333333"))
	updated, err := uc.Update(ctx, alice.ID, &req.UpdateUserRequest{NickName: "Ally", Captcha: "333333"})
	require.NoError(t, err)
	assert.Equal(t, "Ally", updated.NickName)
	assert.Equal(t, "old.png", updated.HeadPic)

	_, err = uc.Update(ctx, "missing", &req.UpdateUserRequest{Captcha: "333333"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
