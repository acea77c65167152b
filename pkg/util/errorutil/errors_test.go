package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewNotFound("Ticket not found.", nil)), CodeNotFound, http.StatusNotFound},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber bad request", fiber.ErrBadRequest, CodeValidationFailed, http.StatusBadRequest},
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestInvalidStateKeepsCause(t *testing.T) {
	cause := errors.New("Ticket already claimed.")
	err := NewInvalidState(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodeInvalidState))
	assert.Equal(t, "Ticket already claimed.", ToDomainError(err).Message)
	assert.Equal(t, http.StatusConflict, ToDomainError(err).HTTPStatus)
}

func TestPersistenceFailureHidesCause(t *testing.T) {
	err := NewPersistenceFailure("Unable to get all tickets.", errors.New("connection reset"))
	domainErr := ToDomainError(err)

	assert.Equal(t, "Unable to get all tickets.", domainErr.Message)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.False(t, IsCode(err, CodeNotFound))
}
