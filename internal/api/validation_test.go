package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `validate:"required,max=5"`
	Date  string   `validate:"required,datetime=2006-01-02"`
	Slots []string `validate:"required,min=1,dive,required"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(sample{Name: "Ana", Date: "2026-10-20", Slots: []string{"08:00 AM"}}))

	errs := ValidateStruct(sample{Name: "Anastasia", Date: "20/10/2026"})
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "max", byField["Name"].Tag)
	assert.Equal(t, "Name must be at most 5", byField["Name"].Message)
	assert.Equal(t, "datetime", byField["Date"].Tag)
	assert.Equal(t, "Slots is required", byField["Slots"].Message)
}

func TestRespondWithValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationErrors(c, []ValidationError{{Field: "Name", Tag: "required", Message: "Name is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error   string            `json:"error"`
		Details []ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Len(t, body.Details, 1)
}
