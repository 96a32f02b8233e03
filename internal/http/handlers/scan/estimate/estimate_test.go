package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriscan/internal/estimator"
	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/services/scan"
)

type ScanServiceMock struct {
	mock.Mock
}

func (m *ScanServiceMock) EstimateAndRecord(ctx context.Context, userUID string, image []byte, mimeType string) (*scan.Result, error) {
	args := m.Called(ctx, userUID, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scan.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="food.jpg"`, field))
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func withUserUID(req *http.Request, uid string) *http.Request {
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, uid)
	return req.WithContext(ctx)
}

func TestEstimateHandler_Success(t *testing.T) {
	serviceMock := new(ScanServiceMock)
	serviceMock.On("EstimateAndRecord", mock.Anything, "uid-1", []byte("image-bytes"), "image/jpeg").
		Return(&scan.Result{
			Estimation: &estimator.Estimation{
				TotalCalories: 600,
				AnalysisNotes: "Grilled chicken",
			},
			LimitAlert:   true,
			LimitMessage: "WARNING: Limit exceeded by 500 kcal!",
		}, nil)

	body, contentType := multipartImage(t, "food_image", []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	req = withUserUID(req, "uid-1")
	rec := httptest.NewRecorder()

	New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(600), data["total_calories"])
	assert.Equal(t, true, data["limit_alert"])
	assert.Contains(t, data["limit_message"], "exceeded by 500")
}

func TestEstimateHandler_NoFile(t *testing.T) {
	serviceMock := new(ScanServiceMock)

	body, contentType := multipartImage(t, "other_field", []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	req = withUserUID(req, "uid-1")
	rec := httptest.NewRecorder()

	New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	serviceMock.AssertNotCalled(t, "EstimateAndRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEstimateHandler_NoUser(t *testing.T) {
	serviceMock := new(ScanServiceMock)

	body, contentType := multipartImage(t, "food_image", []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEstimateHandler_EntitlementDenied(t *testing.T) {
	serviceMock := new(ScanServiceMock)
	serviceMock.On("EstimateAndRecord", mock.Anything, "uid-1", mock.Anything, mock.Anything).
		Return(nil, scan.ErrEntitlementDenied)

	body, contentType := multipartImage(t, "food_image", []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	req = withUserUID(req, "uid-1")
	rec := httptest.NewRecorder()

	New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Trial Expired. Upgrade to Premium.", resp.Error)
}

func TestEstimateHandler_EstimatorFailure(t *testing.T) {
	serviceMock := new(ScanServiceMock)
	serviceMock.On("EstimateAndRecord", mock.Anything, "uid-1", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: gemini API error 500", scan.ErrEstimatorFailure))

	body, contentType := multipartImage(t, "food_image", []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	req = withUserUID(req, "uid-1")
	rec := httptest.NewRecorder()

	New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "gemini API error 500")
}
