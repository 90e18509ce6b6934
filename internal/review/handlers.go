package review

import (
	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes expects r to be mounted under /campgrounds/:id/reviews.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		reviews, err := svc.List(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"reviews": reviews, "results": len(reviews)})
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var in Input
		if err := c.BodyParser(&in); err != nil {
			return response.InvalidInput("Invalid payload", err.Error())
		}
		created, err := svc.Create(c.UserContext(), c.Params("id"), userID(c), in)
		if err != nil {
			return err
		}
		return response.Created(c, fiber.Map{"review": created})
	})

	r.Delete("/:reviewId", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id"), c.Params("reviewId"), userID(c)); err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"id": c.Params("reviewId")})
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
