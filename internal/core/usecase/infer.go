package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ananyak/ndra/internal/core/ports"
)

// FailoverStrategy is the first-class primary/fallback policy: an
// ordered provider list tried until one succeeds. A total failure is
// encoded as an answer-shaped error string for the parser to handle; it
// is never returned as an error.
type FailoverStrategy struct {
	providers  []ports.CompletionClient
	onFailover func(provider string)
}

func NewFailoverStrategy(providers ...ports.CompletionClient) *FailoverStrategy {
	return &FailoverStrategy{providers: providers}
}

// OnFailover registers a hook invoked each time a provider fails and
// the next one is tried. Used for metrics.
func (s *FailoverStrategy) OnFailover(fn func(provider string)) {
	s.onFailover = fn
}

// Complete invokes providers in order. The fallback is only issued
// after the previous call has definitively failed; worst-case latency
// is additive across attempts. No timeout is enforced here.
func (s *FailoverStrategy) Complete(ctx context.Context, prompt string) string {
	var failures []string
	for i, provider := range s.providers {
		text, err := provider.Complete(ctx, prompt)
		if err == nil {
			return text
		}

		slog.Warn("completion_provider_failed",
			"provider", provider.Name(),
			"attempt", i+1,
			"of", len(s.providers),
			"error", err,
		)
		failures = append(failures, fmt.Sprintf("%s: %v", provider.Name(), err))
		if s.onFailover != nil {
			s.onFailover(provider.Name())
		}
	}

	return fmt.Sprintf("Error: all completion providers failed (%s)", strings.Join(failures, "; "))
}
