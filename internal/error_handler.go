package internal

import (
	"errors"
	"net/http"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

// WithErrorHandler translates the error taxonomy into the JSON envelope:
// echo errors keep their status, coded orz errors map to 400, brokerage
// API errors surface their upstream status code, everything else is a 500.
func WithErrorHandler(logger *zap.Logger) func(next echo.HandlerFunc) echo.HandlerFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var he *echo.HTTPError
			if errors.As(err, &he) {
				return c.JSON(he.Code, orz.Map{
					"code":    he.Code,
					"message": err.Error(),
				})
			}

			var oe *orz.Error
			if errors.As(err, &oe) {
				return c.JSON(http.StatusBadRequest, orz.Map{
					"code":    oe.Code,
					"message": err.Error(),
				})
			}

			var ae *alpaca.APIError
			if errors.As(err, &ae) {
				return c.JSON(http.StatusBadGateway, orz.Map{
					"code":    ae.StatusCode,
					"message": err.Error(),
				})
			}

			logger.Error("api error", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, orz.Map{
				"code":    http.StatusInternalServerError,
				"message": err.Error(),
			})
		}
	}
}
