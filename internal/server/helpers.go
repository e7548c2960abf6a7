package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID reads an integer route parameter. Zero and negative values are
// returned as-is; they simply match no post. Only a non-integer writes a 400
// and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (int, error) {
	id, err := strconv.Atoi(c.Params(param))
	if err != nil {
		_ = models.Respond(c, models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return id, nil
}

// parseOptionalQueryID reads an integer query parameter used as a filter. A
// missing or empty parameter yields nil. A non-positive integer yields a filter
// on id 0, which no row carries. A non-integer writes a 400 and returns
// errResponseWritten.
func (s *Server) parseOptionalQueryID(c *fiber.Ctx, param string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = models.Respond(c, models.NewValidationError("Invalid "+humanizeParam(param)))
		return nil, errResponseWritten
	}
	var id uint
	if v > 0 {
		id = uint(v)
	}
	return &id, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}
