package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wanderlust/internal/observability"
)

// DefaultModel is used when GeminiOptions.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// GeminiOptions configures a GeminiProvider.
type GeminiOptions struct {
	APIKey      string
	Model       string
	Temperature float32
}

// contentGenerator is the slice of *genai.GenerativeModel the provider needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements CityInfoProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  contentGenerator
}

// NewGeminiProvider initializes a new Gemini client.
// The API key is passed through to the SDK untouched.
func NewGeminiProvider(ctx context.Context, opts GeminiOptions) (*GeminiProvider, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := opts.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	configureModel(model, opts.Temperature)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// configureModel attaches the persona, the JSON response mode and the schema.
func configureModel(model *genai.GenerativeModel, temperature float32) {
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = cityInfoSchema()
	if temperature > 0 {
		model.SetTemperature(temperature)
	}
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// FetchCityInfo sends query to Gemini and decodes the structured answer.
// Identical queries always issue a new request.
func (p *GeminiProvider) FetchCityInfo(ctx context.Context, query string) (*CityInfo, error) {
	log := observability.LoggerFromContext(ctx)

	resp, err := p.model.GenerateContent(ctx, genai.Text(query))
	if err != nil {
		log.Error("gemini generate content failed", "error", err)
		return nil, &ServiceError{Op: "generate", Err: err}
	}

	text, err := responseText(resp)
	if err != nil {
		log.Error("gemini returned no usable text", "error", err)
		return nil, &ServiceError{Op: "generate", Err: err}
	}

	info, err := DecodeCityInfo(text)
	if err != nil {
		log.Error("gemini response did not match schema", "error", err, "raw", text)
		return nil, &ServiceError{Op: "decode", Err: err}
	}

	if len(info.Attractions) != ExpectedAttractions {
		log.Warn("unexpected attraction count", "city", info.CityName, "count", len(info.Attractions))
	}
	return info, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
