package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type scriptedReply struct {
	resp *genai.GenerateContentResponse
	err  error
}

type recordingChat struct {
	reply    scriptedReply
	messages []string
}

func (c *recordingChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, part := range parts {
		c.messages = append(c.messages, part.Text)
	}
	return c.reply.resp, c.reply.err
}

type scriptedChats struct {
	mu      sync.Mutex
	replies []scriptedReply
	configs []*genai.GenerateContentConfig
	chats   []*recordingChat
	models  []string
}

func (s *scriptedChats) push(resp *genai.GenerateContentResponse, err error) {
	s.replies = append(s.replies, scriptedReply{resp: resp, err: err})
}

func (s *scriptedChats) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return nil, genai.APIError{Code: http.StatusBadRequest, Message: "unexpected call"}
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	chat := &recordingChat{reply: reply}
	s.chats = append(s.chats, chat)
	s.configs = append(s.configs, config)
	s.models = append(s.models, model)
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var waited []time.Duration
	original := wait
	wait = func(ctx context.Context, d time.Duration) error {
		waited = append(waited, d)
		return ctx.Err()
	}
	t.Cleanup(func() { wait = original })
	return &waited
}

func newTestGenerator(chats chatCreator, retries int) *Generator {
	return &Generator{chats: chats, model: "gemini-test", maxRetries: retries, logger: zap.NewNop()}
}

func TestGeneratorSendsSystemInstruction(t *testing.T) {
	chats := &scriptedChats{}
	chats.push(textResponse(" 18 "), nil)

	out, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "be brief", "University: HUST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "18" {
		t.Fatalf("unexpected output: %q", out)
	}

	cfg := chats.configs[0]
	if cfg == nil || cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("expected system instruction to be set, got %+v", cfg)
	}
	if cfg.Temperature == nil || *cfg.Temperature != temperature {
		t.Fatalf("expected temperature %v", temperature)
	}
	if chats.models[0] != "gemini-test" {
		t.Fatalf("unexpected model: %s", chats.models[0])
	}
	if msgs := chats.chats[0].messages; len(msgs) != 1 || msgs[0] != "University: HUST" {
		t.Fatalf("unexpected chat messages: %+v", msgs)
	}
}

func TestGeneratorRetriesServerErrors(t *testing.T) {
	waited := noSleep(t)

	chats := &scriptedChats{}
	chats.push(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	chats.push(textResponse("21"), nil)

	out, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "21" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(chats.chats) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.chats))
	}
	if len(*waited) != 1 || (*waited)[0] != defaultBackoff {
		t.Fatalf("expected one backoff of %s, got %v", defaultBackoff, *waited)
	}
}

func TestGeneratorStopsBackoffOnCancel(t *testing.T) {
	chats := &scriptedChats{}
	chats.push(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	chats.push(textResponse("21"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestGenerator(chats, 3).GenerateContent(ctx, "sys", "msg")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed >= defaultBackoff {
		t.Fatalf("expected backoff to be cut short, waited %s", elapsed)
	}
	if len(chats.chats) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.chats))
	}
}

func TestGeneratorGivesUpAfterMaxRetries(t *testing.T) {
	noSleep(t)

	chats := &scriptedChats{}
	chats.push(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	chats.push(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})

	if _, err := newTestGenerator(chats, 2).GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(chats.chats) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.chats))
	}
}

func TestGeneratorQuotaDelay(t *testing.T) {
	t.Run("short delay is honoured", func(t *testing.T) {
		waited := noSleep(t)

		chats := &scriptedChats{}
		chats.push(nil, genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 1.5s"})
		chats.push(textResponse("9"), nil)

		if _, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(*waited) != 1 || (*waited)[0] != 1500*time.Millisecond {
			t.Fatalf("expected 1.5s wait, got %v", *waited)
		}
	})

	t.Run("long delay is not retried", func(t *testing.T) {
		noSleep(t)

		chats := &scriptedChats{}
		chats.push(nil, genai.APIError{
			Code:    http.StatusTooManyRequests,
			Status:  "RESOURCE_EXHAUSTED",
			Message: "quota exhausted, retry after 60 seconds",
		})

		if _, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg"); err == nil {
			t.Fatal("expected error when quota delay too long")
		}
		if len(chats.chats) != 1 {
			t.Fatalf("expected single call, got %d", len(chats.chats))
		}
	})
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	noSleep(t)

	chats := &scriptedChats{}
	chats.push(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	if _, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error")
	}
	if len(chats.chats) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.chats))
	}
}

func TestGeneratorRejectsEmptyResponses(t *testing.T) {
	chats := &scriptedChats{}
	chats.push(&genai.GenerateContentResponse{}, nil)

	if _, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}

	if _, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "sys", "  "); err == nil {
		t.Fatal("expected error for empty message")
	}
}
