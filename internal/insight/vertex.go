package insight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// TextGenerator is the external text-generation collaborator. The only
// contract required of it is that it eventually returns or fails; the
// service layer imposes the deadline.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// VertexGenerator implements TextGenerator using Google's Vertex AI.
type VertexGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewVertexGenerator creates a Vertex AI backed generator. A missing project
// id is a configuration error and is surfaced immediately rather than
// retried.
func NewVertexGenerator(projectID, location, model string) (*VertexGenerator, error) {
	if projectID == "" {
		return nil, errors.New("insight: GCP project id is required")
	}
	if location == "" {
		location = "us-central1"
	}
	ctx := context.Background()

	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.2)
	m.SetTopP(0.8)
	m.SetTopK(40)

	return &VertexGenerator{client: client, model: m}, nil
}

// GenerateText runs one generation call under the caller's context.
func (g *VertexGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response generated")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response type")
	}
	return string(text), nil
}

// Close closes the underlying Vertex AI client.
func (g *VertexGenerator) Close() error {
	return g.client.Close()
}
