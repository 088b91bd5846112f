package rest

import (
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/cristianortiz/auctionportal/internal/user/application"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc application.UserService
}

func NewUserHandler(svc application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(r fiber.Router, tokens *auth.TokenManager) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/users/:id", httpserver.RequireAuth(tokens), h.profile)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	var dto application.RegisterDTO
	if err := httpserver.ParseBody(c, &dto); err != nil {
		return err
	}
	p, err := h.svc.Register(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	var dto application.LoginDTO
	if err := httpserver.ParseBody(c, &dto); err != nil {
		return err
	}
	res, err := h.svc.Login(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}
