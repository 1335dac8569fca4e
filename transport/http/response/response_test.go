package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"tripbook/shared/constant"
	"tripbook/shared/failure"
	"tripbook/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure keeps its message",
			err:      failure.NotFound("Booking"),
			wantCode: http.StatusNotFound,
			wantMsg:  failure.NotFound("Booking").Error(),
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("cancel: %w", failure.Conflict("booking is being updated")),
			wantCode: http.StatusConflict,
			wantMsg:  "cancel: booking is being updated",
		},
		{
			name:     "storage error is not leaked",
			err:      errors.New("failed to get booking: pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constant.ResponseErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantMsg, *body.Error)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestWithAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithAccepted(rec, "/v1/bookings/b-1", map[string]string{"booking_id": "b-1"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "/v1/bookings/b-1", rec.Header().Get(constant.RequestHeaderLocation))
	assert.JSONEq(t, `{"data":{"booking_id":"b-1"}}`, rec.Body.String())
}
