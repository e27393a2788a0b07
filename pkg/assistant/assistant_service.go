package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eatinator/domain"
	"eatinator/pkg/ratelimit"
	"eatinator/pkg/turnstile"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	chatTimeout = 60 * time.Second
	maxTokens   = 500

	// Per-IP chat budget: 30 requests per hour.
	assistantRateMax    = 30
	assistantRateWindow = time.Hour
)

type (
	AssistantService interface {
		Chat(ctx context.Context, req domain.AssistantRequest, clientIP string) (domain.AssistantResponse, error)
		ChatStream(ctx context.Context, req domain.AssistantRequest, clientIP string) (func(w *bufio.Writer), error)
		Health(ctx context.Context) error
	}

	assistantService struct {
		client   *openai.Client
		model    string
		verifier turnstile.Verifier
		limiter  ratelimit.Limiter
	}
)

func NewAssistantService(apiKey, baseURL, model string, verifier turnstile.Verifier, limiter ratelimit.Limiter) AssistantService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &assistantService{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		verifier: verifier,
		limiter:  limiter,
	}
}

func (s *assistantService) Chat(ctx context.Context, req domain.AssistantRequest, clientIP string) (domain.AssistantResponse, error) {
	if err := s.admit(ctx, req, clientIP); err != nil {
		return domain.AssistantResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req.Context)},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("chat completion failed, serving fallback")
		return domain.AssistantResponse{
			Response: fallbackResponse(req.Context.Language),
			Fallback: true,
		}, nil
	}
	if len(resp.Choices) == 0 {
		return domain.AssistantResponse{
			Response: fallbackResponse(req.Context.Language),
			Fallback: true,
		}, nil
	}
	return domain.AssistantResponse{Response: resp.Choices[0].Message.Content}, nil
}

// ChatStream admits the request up front, then returns a body writer emitting
// the reply as server-sent events, one data line per chunk, terminated by a
// done marker. The writer runs after the request handler has returned, so it
// carries its own deadline instead of the request context. Upstream failure
// falls back to a canned reply so the client always receives something.
func (s *assistantService) ChatStream(ctx context.Context, req domain.AssistantRequest, clientIP string) (func(w *bufio.Writer), error) {
	if err := s.admit(ctx, req, clientIP); err != nil {
		return nil, err
	}

	return func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:     s.model,
			MaxTokens: maxTokens,
			Stream:    true,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req.Context)},
				{Role: openai.ChatMessageRoleUser, Content: req.Message},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("chat stream failed, serving fallback")
			if err := writeChunk(w, fallbackResponse(req.Context.Language)); err != nil {
				return
			}
			_ = writeDone(w)
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				log.Error().Err(err).Msg("chat stream interrupted")
				break
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if delta := resp.Choices[0].Delta.Content; delta != "" {
				if err := writeChunk(w, delta); err != nil {
					return
				}
			}
		}
		_ = writeDone(w)
	}, nil
}

// Health probes the upstream model with a minimal completion.
func (s *assistantService) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
	})
	if err != nil {
		return domain.ErrAssistantUnavailable
	}
	return nil
}

func (s *assistantService) admit(ctx context.Context, req domain.AssistantRequest, clientIP string) error {
	if strings.TrimSpace(req.Message) == "" {
		return domain.ErrEmptyMessage
	}
	if !s.verifier.Verify(ctx, req.TurnstileToken, clientIP) {
		return domain.ErrVerificationFailed
	}
	allowed, err := s.limiter.Allow(ctx, ratelimit.ActionAssistant, clientIP, assistantRateMax, assistantRateWindow)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrRateLimited
	}
	return nil
}

func writeChunk(w *bufio.Writer, chunk string) error {
	payload, err := json.Marshal(map[string]string{"chunk": chunk})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeDone(w *bufio.Writer) error {
	if _, err := fmt.Fprint(w, "data: {\"done\":true}\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
