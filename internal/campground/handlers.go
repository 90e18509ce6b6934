package campground

import (
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the campground API on r. Literal segments are
// registered before /:id so they are not captured as ids.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		opts, err := ParseListOptions(func(key string) string { return c.Query(key) })
		if err != nil {
			return err
		}
		page, err := svc.List(c.UserContext(), opts)
		if err != nil {
			return err
		}
		return response.OK(c, page)
	})

	r.Get("/search/:term", func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), pathParam(c, "term"), c.QueryInt("limit", DefaultSearchLimit))
		if err != nil {
			return err
		}
		return response.OK(c, res)
	})

	r.Get("/category/:type", func(c *fiber.Ctx) error {
		res, err := svc.Category(c.UserContext(), pathParam(c, "type"), c.QueryInt("limit", DefaultCategoryLimit))
		if err != nil {
			return err
		}
		return response.OK(c, res)
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return response.InvalidInput("Invalid coordinates", "lat and lng query parameters are required")
		}
		radius, err := strconv.ParseFloat(c.Query("radiusKm", "0"), 64)
		if err != nil {
			return response.InvalidInput("Invalid radius", "radiusKm must be a number")
		}
		results, err := svc.Nearby(c.UserContext(), lat, lng, radius, c.QueryInt("limit", DefaultNearbyLimit))
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"results": len(results), "campgrounds": results})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		detail, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return response.OK(c, detail)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var in Input
		if err := c.BodyParser(&in); err != nil {
			return response.InvalidInput("Invalid payload", err.Error())
		}
		files, err := formFiles(c)
		if err != nil {
			return err
		}
		created, err := svc.Create(c.UserContext(), userID(c), in, files)
		if err != nil {
			return err
		}
		return response.Created(c, fiber.Map{"campground": created})
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var in UpdateInput
		if err := c.BodyParser(&in); err != nil {
			return response.InvalidInput("Invalid payload", err.Error())
		}
		files, err := formFiles(c)
		if err != nil {
			return err
		}
		updated, err := svc.Update(c.UserContext(), c.Params("id"), userID(c), in, files)
		if err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"campground": updated})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id"), userID(c)); err != nil {
			return err
		}
		return response.OK(c, fiber.Map{"id": c.Params("id")})
	})
}

// pathParam returns a route parameter with percent-escapes decoded. A
// malformed escape is passed through as sent.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// formFiles returns the "image" files of a multipart request, or nothing for
// other content types.
func formFiles(c *fiber.Ctx) ([]*multipart.FileHeader, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, response.InvalidInput("Invalid multipart form", err.Error())
	}
	return form.File["image"], nil
}
