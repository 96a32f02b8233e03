package estimator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestEstimateCalories(t *testing.T) {
	image := []byte("fake-jpeg-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req struct {
			Contents []struct {
				Parts []map[string]any `json:"parts"`
			} `json:"contents"`
			GenerationConfig map[string]any `json:"generationConfig"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)

		inlineData, ok := req.Contents[0].Parts[0]["inline_data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", inlineData["mime_type"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), inlineData["data"])

		assert.Equal(t, "application/json", req.GenerationConfig["response_mime_type"])
		assert.NotNil(t, req.GenerationConfig["response_schema"])

		estimation, err := json.Marshal(Estimation{
			TotalCalories: 540,
			TotalNutrients: Nutrients{
				ProteinG: 32,
				CarbsG:   45,
				FatG:     22,
			},
			AnalysisNotes: "Grilled chicken with rice",
		})
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(geminiResponse(string(estimation)))
	}))
	defer server.Close()

	client := New("test-key", "gemini-1.5-flash", "gemini-1.5-flash")
	client.baseURL = server.URL

	got, err := client.EstimateCalories(context.Background(), image, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 540, got.TotalCalories)
	assert.Equal(t, 32, got.TotalNutrients.ProteinG)
	assert.Equal(t, 45, got.TotalNutrients.CarbsG)
	assert.Equal(t, 22, got.TotalNutrients.FatG)
	assert.Equal(t, "Grilled chicken with rice", got.AnalysisNotes)
}

func TestEstimateCalories_MalformedEstimation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiResponse("not a json object"))
	}))
	defer server.Close()

	client := New("test-key", "gemini-1.5-flash", "gemini-1.5-flash")
	client.baseURL = server.URL

	_, err := client.EstimateCalories(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse estimation")
}

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro:generateContent", r.URL.Path)

		var req struct {
			Contents []struct {
				Parts []map[string]any `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "Create a 1-day diet plan", req.Contents[0].Parts[0]["text"])

		_ = json.NewEncoder(w).Encode(geminiResponse("<h3>Breakfast</h3>"))
	}))
	defer server.Close()

	client := New("test-key", "gemini-1.5-flash", "gemini-1.5-pro")
	client.baseURL = server.URL

	got, err := client.GenerateText(context.Background(), "Create a 1-day diet plan")
	require.NoError(t, err)
	assert.Equal(t, "<h3>Breakfast</h3>", got)
}

func TestGenerateText_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted",
			},
		})
	}))
	defer server.Close()

	client := New("test-key", "gemini-1.5-flash", "gemini-1.5-pro")
	client.baseURL = server.URL

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("gemini API error %d", 429))
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestGenerateText_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := New("test-key", "gemini-1.5-flash", "gemini-1.5-pro")
	client.baseURL = server.URL

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response from gemini")
}
