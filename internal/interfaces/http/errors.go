package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// Códigos de error expuestos en el cuerpo JSON.
const (
	CodeInvalidBody            = "INVALID_BODY"
	CodeValidation             = "VALIDATION"
	CodeNotFound               = "NOT_FOUND"
	CodeDuplicate              = "DUPLICATE"
	CodeVersionConflict        = "VERSION_CONFLICT"
	CodeReferenced             = "REFERENCED"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInternal               = "INTERNAL"
)

// statusFor traduce un error de dominio a status HTTP y código.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, CodeDuplicate
	case errors.Is(err, domain.ErrVersionConflict):
		return fiber.StatusConflict, CodeVersionConflict
	case errors.Is(err, domain.ErrReferenced):
		return fiber.StatusConflict, CodeReferenced
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusUnprocessableEntity, CodeInvalidStateTransition
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity, CodeInsufficientStock
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

// writeError responde con el status y código del error de dominio. Los errores internos
// se devuelven a Fiber para que ErrorHandler los responda y el middleware los registre.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return err
	}
	return c.Status(status).JSON(errorBody(c, code, err.Error()))
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody(c, code, msg))
}

// errorBody incluye el X-Request-ID para correlacionar la respuesta con el log.
func errorBody(c *fiber.Ctx, code, msg string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: msg, RequestID: GetRequestID(c)}
}

// ErrorHandler maneja errores no resueltos por los handlers (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(errorBody(c, code, fe.Message))
	}
	status, code := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "error interno"
	}
	return c.Status(status).JSON(errorBody(c, code, message))
}
