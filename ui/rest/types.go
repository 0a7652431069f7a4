package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	pkgError "github.com/AzielCF/az-study/pkg/error"
	"github.com/AzielCF/az-study/pkg/utils"
	engine "github.com/AzielCF/az-study/studyengine/domain"
)

// errorResponse traduce la taxonomía tipada del motor de estudio (y los
// errores tipados de pkg/error) al envelope HTTP estándar.
func errorResponse(c *fiber.Ctx, err error) error {
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		return c.Status(generic.StatusCode()).JSON(utils.ResponseData{
			Status:  generic.StatusCode(),
			Code:    generic.ErrCode(),
			Message: generic.Error(),
		})
	}

	var (
		authErr      *engine.AuthenticationError
		rateErr      *engine.RateLimitError
		ctxLenErr    *engine.ContextLengthError
		malformedErr *engine.MalformedResponseError
	)
	switch {
	case errors.As(err, &authErr):
		return respond(c, 401, "AUTHENTICATION_ERROR", err.Error())
	case errors.As(err, &rateErr):
		return respond(c, 429, "RATE_LIMITED", err.Error())
	case errors.As(err, &ctxLenErr):
		return respond(c, 413, "CONTENT_TOO_LONG", err.Error())
	case errors.As(err, &malformedErr):
		return respond(c, 502, "UPSTREAM_MALFORMED_RESPONSE", err.Error())
	default:
		return respond(c, 500, "INTERNAL_SERVER_ERROR", err.Error())
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: message,
	})
}
