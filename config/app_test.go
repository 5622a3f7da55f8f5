package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"social-chat-api/cache"
	"social-chat-api/config/common"
	"social-chat-api/config/logger"
	"social-chat-api/dto/res"
	"social-chat-api/security"
)

type discardMailer struct {
	sent chan string
}

func (m *discardMailer) SendMail(_ context.Context, to, _, _ string) error {
	m.sent <- to
	return nil
}

type testServer struct {
	app    *fiber.App
	redis  *miniredis.Miniredis
	mailer *discardMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	v := viper.New()
	v.Set("JWT_SECRET", "app-test-secret")
	cfg := common.NewConfig(v)

	log := logrus.New()
	log.SetOutput(io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: NamingStrategy,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	store := cache.NewRedisCache(common.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })
	ttl, singleUse := cfg.GetCaptchaConfig()

	mail := &discardMailer{sent: make(chan string, 4)}
	app := NewFiber(cfg, log)
	App(&AppConfig{
		App:       app,
		Validate:  NewValidator(),
		Logger:    log,
		AppLogger: logger.NewNopLogger(),
		DB:        db,
		JWT:       security.NewJWT(cfg),
		Codes:     security.NewVerificationCode(store, ttl, singleUse),
		Mailer:    mail,
	})
	return &testServer{app: app, redis: mr, mailer: mail}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var body res.CommonResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func decodeError(t *testing.T, resp *http.Response) res.ErrorResponse {
	t.Helper()
	var body res.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (s *testServer) register(t *testing.T, username string) res.UserResponse {
	t.Helper()
	email := username + "@example.com"
	require.NoError(t, s.redis.Set("captcha_"+email, "123456"))
	resp := s.do(t, fiber.MethodPost, "/user", "", map[string]string{
		"username": username,
		"nickName": username,
		"password": "secret1",
		"email":    email,
		"captcha":  "123456",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decode[res.UserResponse](t, resp)
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp := s.do(t, fiber.MethodPost, "/user/login", "", map[string]string{
		"username": username,
		"password": "secret1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decode[res.LoginResponse](t, resp).Token
}

func TestFriendshipAndDirectRoomFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	aliceToken := s.login(t, "alice")
	bobToken := s.login(t, "bob")

	resp := s.do(t, fiber.MethodPost, "/friendship/add", aliceToken, map[string]string{"friendId": bob.ID, "reason": "hi"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/friendship/agree/"+alice.ID, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/friendship/list", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	friends := decode[[]res.UserResponse](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	resp = s.do(t, fiber.MethodGet, "/friendship/list", bobToken, nil)
	friends = decode[[]res.UserResponse](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, alice.ID, friends[0].ID)

	resp = s.do(t, fiber.MethodPost, "/chatroom/direct", aliceToken, map[string]string{"friendId": bob.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	roomID := decode[res.RoomIDResponse](t, resp).RoomID
	require.NotEmpty(t, roomID)

	resp = s.do(t, fiber.MethodPost, "/chatroom/"+roomID+"/join", bobToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "direct rooms cannot accept new members", decodeError(t, resp).Error)

	resp = s.do(t, fiber.MethodGet, "/chatroom/list", bobToken, nil)
	rooms := decode[[]res.ChatRoomResponse](t, resp)
	require.Len(t, rooms, 1)
	assert.Equal(t, 2, rooms[0].UserCount)
}

func TestGroupRoomFlow(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	aliceToken := s.login(t, "alice")
	bobToken := s.login(t, "bob")

	resp := s.do(t, fiber.MethodPost, "/chatroom/group", aliceToken, map[string]string{"name": "book club"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	roomID := decode[res.RoomIDResponse](t, resp).RoomID

	resp = s.do(t, fiber.MethodPost, "/chatroom/"+roomID+"/join", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/chatroom/"+roomID, aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	info := decode[res.ChatRoomInfoResponse](t, resp)
	assert.Equal(t, "book club", info.Name)
	assert.Len(t, info.Users, 2)

	resp = s.do(t, fiber.MethodPost, "/chatroom/"+roomID+"/quit", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/chatroom/"+roomID+"/members", aliceToken, nil)
	assert.Len(t, decode[[]res.UserResponse](t, resp), 1)

	resp = s.do(t, fiber.MethodGet, "/chatroom/missing", aliceToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, fiber.MethodGet, "/user/info", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "token is invalid or expired, please log in again", body.Error)

	resp = s.do(t, fiber.MethodGet, "/friendship/list", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	s.register(t, "alice")
	token := s.login(t, "alice")
	resp = s.do(t, fiber.MethodGet, "/user/info", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decode[res.UserResponse](t, resp).Username)
}

func TestCaptchaAndErrorRendering(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, fiber.MethodGet, "/user/register-captcha?address=carol@example.com", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "carol@example.com", <-s.mailer.sent)
	assert.True(t, s.redis.Exists("captcha_carol@example.com"))

	resp = s.do(t, fiber.MethodGet, "/user/register-captcha?address=nope", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, fiber.MethodPost, "/user", "", map[string]string{
		"username": "carol", "nickName": "carol", "password": "secret1",
		"email": "carol@example.com", "captcha": "000000x",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "verification code is incorrect", decodeError(t, resp).Error)

	resp = s.do(t, fiber.MethodGet, "/ping", "", nil)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(raw))
}
