package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/charbot/internal/model/chat"
)

// Service sends prompt message lists to the completion model.
type Service struct {
	chain compose.Runnable[[]*schema.Message, *schema.Message]
}

// NewService compiles the completion chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain: runnable,
	}, nil
}

// Complete runs one completion and returns the reply text unmodified.
func (s *Service) Complete(ctx context.Context, messages []chat.Message, maxTokens int) (string, error) {
	input := toSchemaMessages(messages)

	var opts []compose.Option
	if maxTokens > 0 {
		opts = append(opts, compose.WithChatModelOption(model.WithMaxTokens(maxTokens)))
	}

	response, err := s.chain.Invoke(ctx, input, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("chat model returned no message")
	}

	log.Printf("[ai] completion messages=%d max_tokens=%d length=%d%s", len(messages), maxTokens, len(response.Content), usageSuffix(response))
	return response.Content, nil
}

func toSchemaMessages(messages []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return out
}

func usageSuffix(msg *schema.Message) string {
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return ""
	}
	return fmt.Sprintf(" tokens=%d", msg.ResponseMeta.Usage.TotalTokens)
}
