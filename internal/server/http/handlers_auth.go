package httpserver

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	tok, err := s.auth.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tokenResponse{Token: tok.AccessToken})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	tok, err := s.auth.LoginWithIP(c.Context(), req.Username, req.Password, c.IP())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(tokenResponse{Token: tok.AccessToken})
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	u, err := s.auth.GetUser(c.Context(), userID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toUserResponse(u))
}
