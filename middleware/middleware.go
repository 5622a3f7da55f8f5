package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/apperror"
	"social-chat-api/config/logger"
	"social-chat-api/dto/res"
	"social-chat-api/observability/metrics"
	"social-chat-api/security"
)

const (
	UserKey = "user"

	sessionExpiredMessage = "token is invalid or expired, please log in again"
	bearerPrefix          = "Bearer "
)

var ErrSessionExpired = apperror.Unauthorized(sessionExpiredMessage)

// TokenAuthority is what the gate needs from the token issuer.
type TokenAuthority interface {
	Verify(token string) (*security.Claims, error)
	RenewIfNearExpiry(claims *security.Claims) (token string, renewed bool, err error)
}

// Decision is the outcome of a successful authorization. Claims is nil for public routes.
type Decision struct {
	Claims       *security.Claims
	RenewedToken string
}

type Middleware struct {
	Tokens    TokenAuthority
	Log       *logrus.Logger
	AppLogger *logger.AppLogger
}

func NewMiddleware(tokens TokenAuthority, log *logrus.Logger, appLogger *logger.AppLogger) *Middleware {
	return &Middleware{Tokens: tokens, Log: log, AppLogger: appLogger}
}

func (middleware *Middleware) Authorize(requireLogin bool, authorization string) (Decision, error) {
	if !requireLogin {
		return Decision{}, nil
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return Decision{}, ErrSessionExpired
	}
	token := strings.TrimSpace(authorization[len(bearerPrefix):])
	if token == "" {
		return Decision{}, ErrSessionExpired
	}

	claims, err := middleware.Tokens.Verify(token)
	if err != nil {
		middleware.Log.WithError(err).Debug("rejected session token")
		return Decision{}, ErrSessionExpired
	}

	decision := Decision{Claims: claims}
	renewed, ok, err := middleware.Tokens.RenewIfNearExpiry(claims)
	if err != nil {
		// renewal is best effort, the current token is still valid
		middleware.Log.WithError(err).Warn("failed to renew session token")
		return decision, nil
	}
	if ok {
		decision.RenewedToken = renewed
	}
	return decision, nil
}

// RequireLogin guards a route. Claims are stored under UserKey and a renewed
// token is returned in the Authorization response header.
func (middleware *Middleware) RequireLogin(c *fiber.Ctx) error {
	decision, err := middleware.Authorize(true, c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(res.ErrorResponse{
			Status:     fiber.ErrUnauthorized.Message,
			StatusCode: fiber.StatusUnauthorized,
			Error:      apperror.Message(err),
		})
	}

	c.Locals(UserKey, decision.Claims)
	if decision.RenewedToken != "" {
		c.Set(fiber.HeaderAuthorization, bearerPrefix+decision.RenewedToken)
	}
	return c.Next()
}

// UserFromContext returns the session claims placed by RequireLogin, or nil.
func UserFromContext(c *fiber.Ctx) *security.Claims {
	claims, _ := c.Locals(UserKey).(*security.Claims)
	return claims
}

// AccessLog writes one line per request to the rotating HTTP stream log.
func (middleware *Middleware) AccessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	middleware.AppLogger.Http.Stream.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", statusOf(c, err)).
		Dur("latency", time.Since(start)).
		Str("ip", c.IP()).
		Msg("request")
	return err
}

func (middleware *Middleware) Metrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	path := c.Route().Path
	metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(statusOf(c, err))).Inc()
	metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
	return err
}

// statusOf predicts the status the error handler will write for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return apperror.StatusOf(err)
}
