package gen

import "context"

// FallbackClient wraps a primary client and recovers from any failure by
// rendering the deterministic template instead. The tick loop never blocks
// on a broken backend: a failed Generate degrades to templated text.
type FallbackClient struct {
	primary  Client
	template *TemplateClient
}

// WithFallback wraps primary so that every failure is recovered through
// the template client. A nil primary uses templates only.
func WithFallback(primary Client) *FallbackClient {
	return &FallbackClient{
		primary:  primary,
		template: NewTemplateClient(),
	}
}

// Generate tries the primary client and falls back to the template on any
// error. The returned error is always nil.
func (c *FallbackClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if c.primary != nil && c.primary.Available() {
		if text, err := c.primary.Generate(ctx, prompt); err == nil {
			return text, nil
		}
	}
	return c.template.Generate(ctx, prompt)
}

// Available reports whether the primary backend is usable.
func (c *FallbackClient) Available() bool {
	return c.primary != nil && c.primary.Available()
}
