package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{err: fmt.Errorf("products: get 9: %w", ErrNotFound), status: http.StatusNotFound, detail: "products: get 9: resource not found"},
		{err: fmt.Errorf("listing: %w", ErrValidation), status: http.StatusBadRequest, detail: "listing: validation failed"},
		{err: fmt.Errorf("pgx: connection refused"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		RespondError(rr, tt.err)

		assert.Equal(t, tt.status, rr.Code)
		assert.Equal(t, tt.status, StatusOf(tt.err))
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, tt.status, body.Status)
		assert.Equal(t, tt.detail, body.Detail)
	}
}
