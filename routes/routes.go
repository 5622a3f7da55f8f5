package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"social-chat-api/enum"
	"social-chat-api/handler"
	"social-chat-api/middleware"
)

// Route is one entry of the route table. RequireLogin is resolved once, when the
// route is registered.
type Route struct {
	Method       string
	Path         string
	Handler      fiber.Handler
	RequireLogin bool
}

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.UserHandler
	*handler.FriendshipHandler
	*handler.ChatroomHandler
	*handler.WebSocketHandler
}

func (rc *ConfigRoute) GetRoute() {
	rc.Register(rc.Routes())
	rc.GetWebSocketRoute()
	rc.GetOperationalRoute()
}

func (rc *ConfigRoute) Routes() []Route {
	user := rc.UserHandler
	friendship := rc.FriendshipHandler
	chatroom := rc.ChatroomHandler

	return []Route{
		{Method: fiber.MethodPost, Path: "/user", Handler: user.Register},
		{Method: fiber.MethodGet, Path: "/user/register-captcha", Handler: user.Captcha(enum.CaptchaRegister)},
		{Method: fiber.MethodPost, Path: "/user/login", Handler: user.Login},
		{Method: fiber.MethodGet, Path: "/user/info", Handler: user.Info, RequireLogin: true},
		{Method: fiber.MethodPost, Path: "/user/update-password", Handler: user.UpdatePassword},
		{Method: fiber.MethodGet, Path: "/user/update-password/captcha", Handler: user.Captcha(enum.CaptchaUpdatePassword)},
		{Method: fiber.MethodPost, Path: "/user/update", Handler: user.Update, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/user/update/captcha", Handler: user.Captcha(enum.CaptchaUpdateUser)},

		{Method: fiber.MethodPost, Path: "/friendship/add", Handler: friendship.Add, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/friendship/request_list", Handler: friendship.RequestList, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/friendship/agree/:id", Handler: friendship.Agree, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/friendship/reject/:id", Handler: friendship.Reject, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/friendship/list", Handler: friendship.List, RequireLogin: true},
		{Method: fiber.MethodDelete, Path: "/friendship/remove/:id", Handler: friendship.Remove, RequireLogin: true},

		{Method: fiber.MethodPost, Path: "/chatroom/direct", Handler: chatroom.CreateDirect, RequireLogin: true},
		{Method: fiber.MethodPost, Path: "/chatroom/group", Handler: chatroom.CreateGroup, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/chatroom/list", Handler: chatroom.List, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/chatroom/:id", Handler: chatroom.Info, RequireLogin: true},
		{Method: fiber.MethodGet, Path: "/chatroom/:id/members", Handler: chatroom.Members, RequireLogin: true},
		{Method: fiber.MethodPost, Path: "/chatroom/:id/join", Handler: chatroom.Join, RequireLogin: true},
		{Method: fiber.MethodPost, Path: "/chatroom/:id/quit", Handler: chatroom.Quit, RequireLogin: true},
	}
}

func (rc *ConfigRoute) Register(routes []Route) {
	for _, route := range routes {
		handlers := make([]fiber.Handler, 0, 2)
		if route.RequireLogin {
			handlers = append(handlers, rc.Middleware.RequireLogin)
		}
		handlers = append(handlers, route.Handler)
		rc.App.Add(route.Method, route.Path, handlers...)
	}
}

func (rc *ConfigRoute) GetWebSocketRoute() {
	rc.App.Get("/ws/chatroom/:id",
		tokenFromQuery,
		rc.Middleware.RequireLogin,
		rc.WebSocketHandler.Upgrade,
		websocket.New(rc.WebSocketHandler.HandleWebSocket),
	)
}

func (rc *ConfigRoute) GetOperationalRoute() {
	rc.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	rc.App.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
}

// tokenFromQuery lets browser sockets, which cannot set headers, pass ?token=.
func tokenFromQuery(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if token := c.Query("token"); token != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	return c.Next()
}
