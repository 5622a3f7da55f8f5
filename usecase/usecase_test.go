package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"social-chat-api/cache"
	"social-chat-api/config/common"
	"social-chat-api/dto"
	"social-chat-api/entity"
	"social-chat-api/security"
	"social-chat-api/util"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{TablePrefix: "t_", SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entity.Models()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestCodes(t *testing.T) (*security.VerificationCode, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := cache.NewRedisCache(common.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })
	return security.NewVerificationCode(store, security.DefaultCodeTTL, false), mr
}

func seedUser(t *testing.T, db *gorm.DB, username, email, password string) *entity.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &entity.User{Username: username, Password: hash, NickName: username, Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

type sentMail struct {
	to, subject, html string
}

type fakeMailer struct {
	sent chan sentMail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (m *fakeMailer) SendMail(_ context.Context, to, subject, html string) error {
	m.sent <- sentMail{to: to, subject: subject, html: html}
	return m.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []dto.RoomEvent
}

func (n *recordingNotifier) Publish(event dto.RoomEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

var testValidate = validator.New()
