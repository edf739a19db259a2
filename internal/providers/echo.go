package providers

import "context"

// EchoProvider returns the prompt unchanged. It is a deterministic stand-in
// for a real backend.
type EchoProvider struct{}

func NewEchoProvider() *EchoProvider {
	return &EchoProvider{}
}

func (e *EchoProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	return GenerateResponse{Text: req.Prompt}, ProviderInfo{Name: "echo", Model: "echo"}, nil
}
