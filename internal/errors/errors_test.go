package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	cause := stderrors.New("unexpected EOF")

	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("failed to parse capture", cause),
			want: "[PARSING] failed to parse capture: unexpected EOF",
		},
		{
			name: "without cause",
			err:  NewAppValidationError("channel out of range"),
			want: "[VALIDATION] channel out of range",
		},
		{
			name: "not found",
			err:  NewNotFoundError("capture file"),
			want: "[NOT_FOUND] capture file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("failed to write report", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).
		WithContext("source_row", 42).
		WithContext("strategy", "lenient")

	assert.Equal(t, 42, err.Context["source_row"])
	assert.Equal(t, "lenient", err.Context["strategy"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, CaptureNotFoundError("/tmp/missing.csv"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "CAPTURE_NOT_FOUND")
	assert.Contains(t, rec.Body.String(), "/tmp/missing.csv")
}
