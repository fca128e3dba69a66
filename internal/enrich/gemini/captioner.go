// Package gemini captions preview images through the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

// Captioner produces a short caption and tag list for one preview image.
type Captioner struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, cfg Config) (*Captioner, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Captioner{
		client: client,
		model:  strings.TrimSpace(cfg.Model),
	}, nil
}

// Result is the structured caption output persisted per entry.
type Result struct {
	Caption string   `json:"caption"`
	Tags    []string `json:"tags"`
	Model   string   `json:"model"`
}

var outputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"caption": {Type: genai.TypeString},
		"tags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"caption", "tags"},
}

const prompt = `Describe this photo in one factual sentence and list up to five
short lowercase tags for search. Do not guess the identity of any person.`

// Caption sends the image to the model and returns the serialized Result.
func (c *Captioner) Caption(ctx context.Context, image []byte, mimeType string) ([]byte, error) {
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   outputSchema,
		},
	)
	if err != nil {
		return nil, err
	}

	var parsed Result
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("gemini: parse structured json: %w", err)
	}
	parsed.Caption = strings.TrimSpace(parsed.Caption)
	parsed.Model = c.model

	return json.Marshal(parsed)
}
