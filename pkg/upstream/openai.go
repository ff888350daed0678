package upstream

import (
	"context"
	"errors"
	"io"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// ClientConfig configures the hosted default path of the OpenAI-backed
// factory. The BYOM path carries its own endpoint and token inside each
// SessionConfig and does not use these values.
type ClientConfig struct {
	// BaseURL is the hosted inference endpoint.
	BaseURL string

	// APIKey authenticates against the hosted endpoint.
	APIKey string

	// DefaultModel is used when a SessionConfig leaves Model empty.
	DefaultModel string
}

// OpenAIFactory creates sessions backed by the OpenAI-compatible client.
//
// The hosted-path client is lazily initialized once and reused across
// requests; it holds no per-request state. BYOM sessions get a fresh client
// because the bearer token is resolved per request.
type OpenAIFactory struct {
	cfg ClientConfig

	mu     sync.Mutex
	hosted *openai.Client
}

// NewOpenAIFactory creates a factory for the given hosted-path configuration.
func NewOpenAIFactory(cfg ClientConfig) *OpenAIFactory {
	return &OpenAIFactory{cfg: cfg}
}

// NewSession implements Factory.
func (f *OpenAIFactory) NewSession(_ context.Context, cfg SessionConfig) (Session, error) {
	model := cfg.Model
	if model == "" {
		model = f.cfg.DefaultModel
	}

	return &openAISession{
		client:    f.clientFor(cfg),
		model:     model,
		streaming: cfg.Streaming,
		subs:      make(map[int]func(string)),
		done:      make(chan error, 1),
	}, nil
}

// clientFor returns the client for the session's model path.
func (f *OpenAIFactory) clientFor(cfg SessionConfig) *openai.Client {
	if p := cfg.Provider; p != nil {
		cc := openai.DefaultAzureConfig(p.BearerToken, p.BaseURL)
		// AzureAD sends the token as an Authorization bearer header instead
		// of an api-key header.
		cc.APIType = openai.APITypeAzureAD
		if p.APIVersion != "" {
			cc.APIVersion = p.APIVersion
		}
		return openai.NewClientWithConfig(cc)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hosted == nil {
		cc := openai.DefaultConfig(f.cfg.APIKey)
		if f.cfg.BaseURL != "" {
			cc.BaseURL = f.cfg.BaseURL
		}
		f.hosted = openai.NewClientWithConfig(cc)
	}
	return f.hosted
}

// openAISession adapts one chat-completion call to the Session capability.
type openAISession struct {
	client    *openai.Client
	model     string
	streaming bool

	mu      sync.Mutex
	subs    map[int]func(string)
	nextSub int
	closed  bool
	cancel  context.CancelFunc

	done     chan error
	doneOnce sync.Once
}

// SendPrompt implements Session.
//
// The pump is deliberately detached from the request context: caller
// disconnection is handled by the relay skipping writes, not by cancelling
// the upstream call. Close cancels the pump.
func (s *openAISession) SendPrompt(ctx context.Context, prompt string) error {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: s.streaming,
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return errors.New("session already released")
	}
	s.cancel = cancel
	s.mu.Unlock()

	if !s.streaming {
		go s.runOnce(pumpCtx, req)
		return nil
	}

	stream, err := s.client.CreateChatCompletionStream(pumpCtx, req)
	if err != nil {
		cancel()
		s.finish(err)
		return &SendError{Cause: err}
	}

	go s.pump(stream)
	return nil
}

// runOnce drives a non-streaming completion. The full content is emitted as a
// single increment before the terminal signal.
func (s *openAISession) runOnce(ctx context.Context, req openai.ChatCompletionRequest) {
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		s.finish(err)
		return
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		s.emit(resp.Choices[0].Message.Content)
	}
	s.finish(nil)
}

// pump forwards stream deltas to subscribers until EOF or error.
func (s *openAISession) pump(stream *openai.ChatCompletionStream) {
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			s.finish(nil)
			return
		}
		if err != nil {
			s.finish(err)
			return
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			s.emit(delta)
		}
	}
}

// emit invokes subscribers under the session lock so that an unsubscribed
// callback can never run after its cancel function returns.
func (s *openAISession) emit(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cb := range s.subs {
		cb(delta)
	}
}

// Subscribe implements Session.
func (s *openAISession) Subscribe(cb func(delta string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = cb

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Done implements Session.
func (s *openAISession) Done() <-chan error {
	return s.done
}

// finish delivers the terminal signal exactly once. The done channel is
// buffered so the pump never blocks on a caller that stopped listening.
func (s *openAISession) finish(err error) {
	s.doneOnce.Do(func() {
		s.done <- err
	})
}

// Close implements Session.
func (s *openAISession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
