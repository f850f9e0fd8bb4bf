// Package advisor calls an OpenAI-compatible model for qualitative portfolio
// risk assessments.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/seanpizarro/antigravity-trading-system/internal/errors"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
	"github.com/seanpizarro/antigravity-trading-system/internal/resilience"
	"github.com/seanpizarro/antigravity-trading-system/pkg/utils"
)

const systemPrompt = `You are a derivatives portfolio risk analyst.
Given portfolio metrics, automated alerts, and market conditions, respond with
ONLY a JSON object of the form:
{"alert_level": <integer 0-10>, "message": "<one line summary>",
 "concerns": ["..."], "recommendations": ["..."]}`

// Client assesses portfolio risk through a chat-completion model. It
// satisfies risk.Advisor.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	retry   utils.RetryConfig
	breaker *resilience.Breaker
	logger  zerolog.Logger
}

// Config selects the endpoint and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// New creates an advisor client. An empty API key returns ErrAdvisorDisabled
// so callers can fall back to automated-only assessment.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.ErrAdvisorDisabled
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: timeout,
		retry:   utils.DefaultRetryConfig(),
		breaker: resilience.NewBreaker("advisor", resilience.DefaultConfig()),
		logger:  logger,
	}, nil
}

// Assess sends the portfolio state to the model and parses its JSON verdict.
func (c *Client) Assess(ctx context.Context, metrics models.PortfolioMetrics, alerts []models.RiskAlert, market models.MarketCondition) (*models.RiskAssessment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt, err := buildPrompt(metrics, alerts, market)
	if err != nil {
		return nil, &errors.AdvisorError{Operation: "build prompt", Err: err}
	}

	content, err := resilience.Do(c.breaker, func() (string, error) {
		return utils.RetryWithResult(ctx, c.retry, func() (string, error) {
			return c.complete(ctx, prompt)
		})
	})
	if err != nil {
		return nil, &errors.AdvisorError{Operation: "chat completion", Err: err}
	}

	assessment, err := parseAssessment(content)
	if err != nil {
		c.logger.Warn().Err(err).Str("content", content).Msg("unparseable advisor response")
		return nil, &errors.AdvisorError{Operation: "parse response", Err: err}
	}

	c.logger.Debug().Int("alert_level", assessment.AlertLevel).Msg("advisor assessment received")
	return assessment, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(metrics models.PortfolioMetrics, alerts []models.RiskAlert, market models.MarketCondition) (string, error) {
	payload := struct {
		Metrics models.PortfolioMetrics `json:"portfolio_metrics"`
		Alerts  []models.RiskAlert      `json:"active_alerts"`
		Market  models.MarketCondition  `json:"market_condition"`
	}{metrics, alerts, market}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return "Assess the risk of this portfolio:\n" + string(body), nil
}

// parseAssessment decodes the model's JSON verdict, tolerating surrounding
// prose and markdown fences.
func parseAssessment(content string) (*models.RiskAssessment, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		AlertLevel      int      `json:"alert_level"`
		Message         string   `json:"message"`
		Concerns        []string `json:"concerns"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	if raw.Message == "" {
		return nil, fmt.Errorf("assessment missing message")
	}

	assessment := &models.RiskAssessment{
		AlertLevel:      models.ClampAlertLevel(raw.AlertLevel),
		Message:         raw.Message,
		Concerns:        raw.Concerns,
		Recommendations: raw.Recommendations,
	}
	if assessment.Concerns == nil {
		assessment.Concerns = []string{}
	}
	if assessment.Recommendations == nil {
		assessment.Recommendations = []string{}
	}
	return assessment, nil
}
