package serverutils

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest validates a bound request DTO against its `validate` tags.
func ValidateRequest(s interface{}) error {
	return validate.Struct(s)
}

// ErrorHandlerMiddleware converts panics in downstream handlers into a 500
// envelope so one bad request never takes the process down.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(500, fmt.Sprintf("internal error: %v", r)))
			}
		}()
		return ctx.Next()
	}
}
