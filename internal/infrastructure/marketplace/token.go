package marketplace

import "context"

// TokenProvider supplies a currently valid bearer credential for each
// outbound call. Refreshing expired credentials is the provider's problem;
// the client only observes rejection.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider hands out a fixed token, typically injected from
// configuration or by an external auth flow at process start.
type StaticTokenProvider struct {
	token string
}

func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	return p.token, nil
}
