// Package response shapes every API reply into one of two envelopes:
// {success:true, data} or {success:false, error, message}.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type Envelope struct {
	Success    bool     `json:"success"`
	Data       any      `json:"data,omitempty"`
	Error      string   `json:"error,omitempty"`
	Message    string   `json:"message,omitempty"`
	ValidTypes []string `json:"validTypes,omitempty"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// ErrorHandler is installed as fiber's ErrorHandler so handlers can simply
// return errors. Failures are logged by the request logging middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, env := Failure(err)
	return c.Status(status).JSON(env)
}

// StatusOf returns the status ErrorHandler sends for err, or 200 for nil.
// Middleware that runs before the error handler uses it to report the
// final status.
func StatusOf(err error) int {
	if err == nil {
		return fiber.StatusOK
	}
	status, _ := Failure(err)
	return status
}

// Failure maps an error onto a status code and failure envelope.
func Failure(err error) (int, Envelope) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status(), Envelope{
			Error:      apiErr.Code,
			Message:    apiErr.Message,
			ValidTypes: apiErr.ValidTypes,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, Envelope{
			Error:   utils.StatusMessage(fiberErr.Code),
			Message: fiberErr.Message,
		}
	}

	return fiber.StatusInternalServerError, Envelope{
		Error:   "Internal server error",
		Message: err.Error(),
	}
}
