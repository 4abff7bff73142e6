package analysis

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"github.com/snacksense/backend/internal/models"
	"google.golang.org/api/option"
)

// GeminiConfig holds configuration for the Vertex AI analyzer.
type GeminiConfig struct {
	ProjectID       string `json:"project_id"`
	Location        string `json:"location"`
	CredentialsFile string `json:"credentials_file"`
	Model           string `json:"model"`
}

// ApplyEnv fills unset fields from environment variables.
func (c *GeminiConfig) ApplyEnv() {
	if c.ProjectID == "" {
		c.ProjectID = os.Getenv("GOOGLE_PROJECT_ID")
	}
	if c.Location == "" {
		c.Location = os.Getenv("GOOGLE_LOCATION")
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
	}
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
}

// responseSchema constrains the model to the six-field analysis contract.
// The service enforces field names and types; category values outside the
// enum are still checked on our side before a result is accepted.
var responseSchema = &genai.Schema{
	Description: "Food analysis result",
	Type:        genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"health_score": {
			Type:        genai.TypeNumber,
			Description: "Score from 0-100 based on nutritional value",
		},
		"category": {
			Type:        genai.TypeString,
			Format:      "enum",
			Description: "Overall verdict: Harmful, Neutral, or Beneficial",
			Enum:        []string{"Harmful", "Neutral", "Beneficial"},
		},
		"sustainability_score": {
			Type:        genai.TypeNumber,
			Description: "Environmental impact score 0-100",
		},
		"allergens": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of potential allergens found in ingredients",
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "Short, strict nutritionist summary of the product",
		},
		"healthier_alternatives": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of 2-3 healthier options",
		},
	},
	Required: []string{
		"health_score",
		"category",
		"sustainability_score",
		"allergens",
		"summary",
		"healthier_alternatives",
	},
}

// Gemini implements Analyzer on top of Vertex AI.
type Gemini struct {
	config GeminiConfig
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates an unloaded Gemini analyzer.
func NewGemini(config GeminiConfig) *Gemini {
	return &Gemini{config: config}
}

// Load initializes the Vertex AI client and pins the response schema.
func (g *Gemini) Load(ctx context.Context) error {
	opts := []option.ClientOption{}
	if g.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.config.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, g.config.ProjectID, g.config.Location, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	model := client.GenerativeModel(g.config.Model)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = responseSchema

	g.client = client
	g.model = model
	return nil
}

// Close releases the underlying client connection.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Analyze sends one product (plus optional profile) to the model and decodes
// the structured verdict. Any schema breach fails the whole call.
func (g *Gemini) Analyze(ctx context.Context, product *models.ProductRecord, profile *models.UserProfile) (*models.AnalysisResult, error) {
	if g.model == nil {
		return nil, fmt.Errorf("analyzer not loaded")
	}

	prompt := BuildPrompt(product, profile)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to call ai: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response generated")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	textContent := fmt.Sprintf("%v", candidate.Content.Parts[0])
	return DecodeResult(textContent)
}
