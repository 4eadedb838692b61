package oracle

import (
	"bytes"
	"context"
	_ "embed"
	"sort"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

//go:embed prompts/route.txt
var routePrompt string

const defaultModel = "gemini-2.5-flash"

// GeminiConfig contains configuration options for the Gemini-backed oracle.
type GeminiConfig struct {
	// APIKey for the generative language API (required)
	APIKey string
	// Model name (optional, defaults to gemini-2.5-flash)
	Model string
	// Temperature for routing decisions (optional, defaults to 0.1 to keep
	// routing stable)
	Temperature float32
}

// Validate validates the config and sets defaults if not provided.
func (cfg *GeminiConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.APIKey == "" {
		vb.RequiredField("APIKey")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	return vb.Build()
}

// GeminiOracle routes turns by asking a Gemini model for the next directive.
type GeminiOracle struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	template *template.Template
}

// NewGemini creates a Gemini-backed oracle
func NewGemini(ctx context.Context, cfg *GeminiConfig) (*GeminiOracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)

	tmpl, err := template.New("route").Parse(routePrompt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse routing prompt")
	}

	return &GeminiOracle{
		client:   client,
		model:    model,
		template: tmpl,
	}, nil
}

// Ensure GeminiOracle implements Client
var _ Client = (*GeminiOracle)(nil)

// Close releases the underlying genai client
func (o *GeminiOracle) Close() error {
	return o.client.Close()
}

// Decide asks the model for the next directive given the current state
func (o *GeminiOracle) Decide(ctx context.Context, state *conversation.State) (*conversation.Directive, error) {
	prompt, err := o.renderPrompt(state)
	if err != nil {
		return nil, err
	}

	resp, err := o.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "oracle call failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.Unavailable("oracle returned no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, errors.Unavailable("oracle returned a non-text part")
	}

	return ParseDirective(string(text))
}

func (o *GeminiOracle) renderPrompt(state *conversation.State) (string, error) {
	keys := make([]conversation.ArtifactKey, 0, len(state.Artifacts))
	for k := range state.Artifacts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var buf bytes.Buffer
	err := o.template.Execute(&buf, struct {
		Query        string
		Turns        []conversation.Turn
		ArtifactKeys []conversation.ArtifactKey
	}{
		Query:        state.Query,
		Turns:        state.Turns,
		ArtifactKeys: keys,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to render routing prompt")
	}
	return buf.String(), nil
}
