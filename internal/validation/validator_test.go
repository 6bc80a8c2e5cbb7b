package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/validation"
)

type TestRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=500"`
	Status string `json:"status" validate:"omitempty,gamestatus"`
	Rating int    `json:"rating" validate:"gte=0,lte=10"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Title:  "Disco Elysium",
		Status: "in_progress",
		Rating: 9,
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        TestRequest
		wantErrMsg string
	}{
		{
			name:       "missing required title",
			req:        TestRequest{Title: "", Rating: 5},
			wantErrMsg: "title",
		},
		{
			name:       "rating above scale",
			req:        TestRequest{Title: "Okami", Rating: 11},
			wantErrMsg: "rating",
		},
		{
			name:       "unknown play status",
			req:        TestRequest{Title: "Okami", Status: "playing"},
			wantErrMsg: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var appErr *domainerrors.Error
			if assert.True(t, errors.As(err, &appErr)) {
				assert.Equal(t, domainerrors.CodeValidation, appErr.Code)
				details, ok := appErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(TestRequest{Title: ""})
	assert.Error(t, err)

	var appErr *domainerrors.Error
	if assert.True(t, errors.As(err, &appErr)) {
		details, ok := appErr.Details.(map[string]string)
		if assert.True(t, ok) {
			// Should use JSON tag name "title", not struct field name "Title"
			assert.Contains(t, details, "title")
			assert.NotContains(t, details, "Title")
		}
	}
}
