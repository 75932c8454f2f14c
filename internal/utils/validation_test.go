package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bookingRequest struct {
	DoctorID         string `json:"doctorId" binding:"required,uuid"`
	Time             string `json:"time" binding:"required"`
	ConsultationMode string `json:"consultationMode" binding:"omitempty,oneof=in_person telemedicine"`
}

type wrapUpRequest struct {
	Notes             string `json:"notes" binding:"omitempty,max=10"`
	ConnectionQuality string `json:"connectionQuality" binding:"omitempty,oneof=excellent good fair poor"`
}

func jsonContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate_MissingRequiredField(t *testing.T) {
	c, w := jsonContext(t, `{"doctorId":"7f9c24e5-2f86-4f6d-8c2d-1f07a43bd0aa"}`)

	var req bookingRequest
	ok := BindAndValidate(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Time is required")
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c, w := jsonContext(t, `{"doctorId":`)

	var req bookingRequest
	ok := BindAndValidate(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBindAndValidate_RejectedEnumValue(t *testing.T) {
	c, w := jsonContext(t, `{"doctorId":"7f9c24e5-2f86-4f6d-8c2d-1f07a43bd0aa","time":"10:00","consultationMode":"carrier_pigeon"}`)

	var req bookingRequest
	ok := BindAndValidate(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "ConsultationMode must be one of")
}

func TestBindAndValidate_ValidPayload(t *testing.T) {
	c, w := jsonContext(t, `{"doctorId":"7f9c24e5-2f86-4f6d-8c2d-1f07a43bd0aa","time":"10:00"}`)

	var req bookingRequest
	ok := BindAndValidate(c, &req)

	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10:00", req.Time)
}

func TestBindAndValidateOptional_EmptyBody(t *testing.T) {
	c, w := jsonContext(t, "")

	var req wrapUpRequest
	ok := BindAndValidateOptional(c, &req)

	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, req.Notes)
}

func TestBindAndValidateOptional_InvalidBodyStillValidated(t *testing.T) {
	c, w := jsonContext(t, `{"connectionQuality":"amazing"}`)

	var req wrapUpRequest
	ok := BindAndValidateOptional(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "ConnectionQuality must be one of")
}

func TestBindAndValidateOptional_OverlongField(t *testing.T) {
	c, w := jsonContext(t, `{"notes":"`+strings.Repeat("x", 11)+`"}`)

	var req wrapUpRequest
	ok := BindAndValidateOptional(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
