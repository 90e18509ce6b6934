package auth

import (
	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return response.InvalidInput("Invalid payload", err.Error())
		}
		user, tokens, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return response.Created(c, fiber.Map{"user": user, "tokens": tokens})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return response.InvalidInput("Invalid payload", err.Error())
		}
		user, tokens, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"user": user, "tokens": tokens})
	})

	r.Post("/refresh", func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return response.InvalidInput("Invalid payload", "refreshToken required")
		}
		tokens, err := svc.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"tokens": tokens})
	})

	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		id, _ := c.Locals("user_id").(string)
		user, err := svc.Me(c.UserContext(), id)
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"user": user})
	})
}
