package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andreicosmin02/furniture-store-api/internal/config"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// Client calls an OpenAI-compatible API for room analysis and image
// generation. Failures are surfaced directly; there is no retry policy.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a client from the AI configuration.
func NewClient(cfg config.AI) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    http.DefaultClient,
	}
}

// ProductImage pairs a catalog description with the product's image
// bytes for the generation call.
type ProductImage struct {
	Description string
	Image       []byte
}

type chatRequest struct {
	Model          string        `json:"model"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeRoom sends the room photo and the product catalog to the
// vision model and returns its structured selection document.
func (c *Client) AnalyzeRoom(ctx context.Context, roomImage []byte, style string, products []models.Product) (models.CustomizationDoc, error) {
	prompt := buildAnalysisPrompt(style, products)

	reqBody := chatRequest{
		Model:          c.model,
		ResponseFormat: &formatSpec{Type: "json_object"},
		MaxTokens:      2000,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL(roomImage)}},
			},
		}},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("ai: no response generated")
	}

	var doc models.CustomizationDoc
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &doc); err != nil {
		return nil, fmt.Errorf("ai: failed to parse model response: %w", err)
	}
	return doc, nil
}

type responsesRequest struct {
	Model string          `json:"model"`
	Input []responseInput `json:"input"`
	Tools []responseTool  `json:"tools"`
}

type responseInput struct {
	Role    string      `json:"role"`
	Content []inputPart `json:"content"`
}

type inputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type responseTool struct {
	Type string `json:"type"`
	Size string `json:"size,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type   string `json:"type"`
		Result string `json:"result"`
	} `json:"output"`
}

// GenerateImage asks the model to render the room with the selected
// products placed in it and returns the generated image bytes.
func (c *Client) GenerateImage(ctx context.Context, roomImage []byte, style string, products []ProductImage) ([]byte, error) {
	content := []inputPart{
		{Type: "input_text", Text: buildGenerationPrompt(style, products)},
		{Type: "input_image", ImageURL: dataURL(roomImage), Detail: "auto"},
	}
	for _, p := range products {
		content = append(content, inputPart{
			Type: "input_image", ImageURL: dataURL(p.Image), Detail: "auto",
		})
	}

	reqBody := responsesRequest{
		Model: c.model,
		Input: []responseInput{{Role: "user", Content: content}},
		Tools: []responseTool{{Type: "image_generation", Size: "1024x1024"}},
	}

	var resp responsesResponse
	if err := c.post(ctx, "/responses", reqBody, &resp); err != nil {
		return nil, err
	}

	for _, out := range resp.Output {
		if out.Type == "image_generation_call" && out.Result != "" {
			img, err := base64.StdEncoding.DecodeString(out.Result)
			if err != nil {
				return nil, fmt.Errorf("ai: failed to decode generated image: %w", err)
			}
			return img, nil
		}
	}
	return nil, fmt.Errorf("ai: no image generated")
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ai: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ai: model API error: %s", string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ai: failed to decode response: %w", err)
	}
	return nil
}

func dataURL(image []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}
