package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/opinion"
)

type Drafter struct {
	client *anthropic.Client
	model  string
}

func New(apiKey, model string, opts ...anthropic.ClientOption) *Drafter {
	return &Drafter{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (d *Drafter) Draft(ctx context.Context, record *domain.InspectionRecord) (string, error) {
	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.model),
		System:    opinion.Instructions,
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(opinion.Prompt(record)),
		},
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude returned %s: %s", apiErr.Type, apiErr.Message)
		}
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	text := strings.TrimSpace(resp.GetFirstContentText())
	if text == "" {
		return "", errors.New("claude returned no text")
	}
	return text, nil
}
