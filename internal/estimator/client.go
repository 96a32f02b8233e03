// Package estimator реализует клиент AI-оценщика (Gemini API).
//
// Клиент умеет два вызова: оценку калорийности по фотографии еды со строго
// зафиксированной JSON-схемой ответа и генерацию текста для плана питания.
// Для бизнес-логики оценщик непрозрачен: любой ответ с ошибкой — это
// терминальный отказ без частичной записи результата.
package estimator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const calorieSchemaPrompt = "Analyze this food image. Return JSON with total_calories, analysis_notes (summary), and total_nutrients (protein_g, carbs_g, fat_g)."

// calorieSchema — схема ответа, которую модель обязана соблюдать.
var calorieSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"total_calories": map[string]any{"type": "integer"},
		"total_nutrients": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"protein_g":      map[string]any{"type": "integer"},
				"carbs_g":        map[string]any{"type": "integer"},
				"fat_g":          map[string]any{"type": "integer"},
				"cholesterol_mg": map[string]any{"type": "integer"},
				"sodium_mg":      map[string]any{"type": "integer"},
				"vitamin_c_mg":   map[string]any{"type": "integer"},
			},
			"required": []string{"protein_g", "carbs_g", "fat_g"},
		},
		"analysis_notes": map[string]any{"type": "string"},
	},
	"required": []string{"total_calories", "total_nutrients", "analysis_notes"},
}

// Client выполняет запросы к Gemini API поверх net/http.
type Client struct {
	apiKey      string
	baseURL     string
	visionModel string
	textModel   string
	httpClient  *http.Client
}

// New создаёт клиент оценщика с заданным ключом и именами моделей.
func New(apiKey, visionModel, textModel string) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     "https://generativelanguage.googleapis.com/v1beta",
		visionModel: visionModel,
		textModel:   textModel,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// EstimateCalories отправляет изображение еды модели и возвращает разобранную оценку.
func (c *Client) EstimateCalories(ctx context.Context, image []byte, mimeType string) (*Estimation, error) {
	const op = "estimator.EstimateCalories"

	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"inline_data": map[string]any{
						"mime_type": mimeType,
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
					{"text": calorieSchemaPrompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"response_mime_type": "application/json",
			"response_schema":    calorieSchema,
			"temperature":        0.1,
		},
	}

	text, err := c.makeAPICall(ctx, c.visionModel, requestBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result Estimation
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%s: failed to parse estimation: %w", op, err)
	}
	return &result, nil
}

// GenerateText генерирует текст по произвольному промпту (используется для планов питания).
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	const op = "estimator.GenerateText"

	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
				},
			},
		},
	}

	text, err := c.makeAPICall(ctx, c.textModel, requestBody)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return text, nil
}

func (c *Client) makeAPICall(ctx context.Context, model string, requestBody map[string]any) (string, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("gemini API error %d: %s", response.Error.Code, response.Error.Message)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}
