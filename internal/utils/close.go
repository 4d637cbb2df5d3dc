package utils

import (
	"io"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// CloseLogged closes c and logs any error at warn.
// Use in defer statements where the error cannot be returned.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close "+what, logger.Error(err))
	}
}
