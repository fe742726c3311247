package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/middleware"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
)

// DayParser reads YYYY-MM-DD query values in the workshop timezone.
type DayParser interface {
	ParseDay(value string) (time.Time, error)
}

// GetSession returns the caller's session, answering 401 when there is none.
func GetSession(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		response.Unauthorized(c, "Sessão não autenticada")
	}
	return sess, ok
}

// grantFrom prefers the grant sent in the body and falls back to the
// X-Authorization-Grant header.
func grantFrom(c *gin.Context, body string) string {
	if body != "" {
		return body
	}
	return c.GetHeader(middleware.GrantHeader)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid work order number")
		return 0, false
	}
	return id, true
}

// optionalDay parses value when it is set. field names the query parameter
// in the validation error.
func optionalDay(days DayParser, field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := days.ParseDay(value)
	if err != nil {
		return nil, apperror.NewFieldError(field, "Use o formato AAAA-MM-DD")
	}
	return &t, nil
}

// dayRange parses an optional [from, to] pair of calendar days into the
// half-open interval [from 00:00, day after to 00:00).
func dayRange(days DayParser, from, to string) (*time.Time, *time.Time, error) {
	start, err := optionalDay(days, "from", from)
	if err != nil {
		return nil, nil, err
	}
	end, err := optionalDay(days, "to", to)
	if err != nil {
		return nil, nil, err
	}
	if end != nil {
		next := end.AddDate(0, 0, 1)
		end = &next
	}
	return start, end, nil
}

func parseUUIDQuery(c *gin.Context, name, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		response.Error(c, apperror.NewFieldError(name, "Identificador inválido"))
		return uuid.Nil, false
	}
	return id, true
}
