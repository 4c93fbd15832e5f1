package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"cine-catalog/catalog"

	"github.com/gofiber/fiber/v2"
)

// errorHandler maps handler errors to responses: NotFound to 404,
// ValidationError to 400 and anything else to 500.
func errorHandler(c *fiber.Ctx, err error) error {
	rid := requestID(c)
	body := fiber.Map{"request_id": rid}
	status := fiber.StatusInternalServerError

	var verr *catalog.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = fiber.StatusNotFound
		body["error"] = err.Error()
	case errors.As(err, &verr):
		status = fiber.StatusBadRequest
		body["error"] = "invalid payload"
		body["fields"] = verr.Fields
	case errors.As(err, &ferr):
		status = ferr.Code
		body["error"] = ferr.Message
	default:
		log.Printf("%s | %s %s failed: %v", rid, c.Method(), c.Path(), err)
		body["error"] = fmt.Sprintf("internal server error: %s", rid)
	}

	return c.Status(status).JSON(body)
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals(requestIDKey).(string); ok {
		return rid
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// parseID reads a numeric path parameter. Ids that cannot exist are reported
// as NotFound rather than as a bad request.
func parseID(c *fiber.Ctx, param, kind string) (int64, error) {
	raw := c.Params(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", kind, raw, catalog.ErrNotFound)
	}
	return id, nil
}

// decode parses a JSON body into out, turning decoder failures into
// ValidationErrors that name the offending field when possible.
func decode(c *fiber.Ctx, out any) error {
	err := c.BodyParser(out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return catalog.NewValidationError(typeErr.Field,
			fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	case errors.As(err, &syntaxErr):
		return catalog.NewValidationError("body", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	case errors.Is(err, fiber.ErrUnprocessableEntity):
		return catalog.NewValidationError("body", "expected an application/json body")
	default:
		return catalog.NewValidationError("body", err.Error())
	}
}
