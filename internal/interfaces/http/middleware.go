package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// Locals key y cabecera para el identificador de petición.
const (
	LocalRequestID  = "request_id"
	HeaderRequestID = "X-Request-ID"
)

// RequestLogger asigna X-Request-ID (respeta el del cliente) y registra una línea por petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(LocalRequestID, requestID)
		c.Set(HeaderRequestID, requestID)

		chainErr := c.Next()
		if chainErr != nil {
			// el ErrorHandler escribe la respuesta; se invoca aquí para registrar el status final
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := httpLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = httpLog.Error().Err(chainErr)
		} else if status >= fiber.StatusBadRequest {
			event = httpLog.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// GetRequestID devuelve el identificador asignado por RequestLogger.
func GetRequestID(c *fiber.Ctx) string {
	v := c.Locals(LocalRequestID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
