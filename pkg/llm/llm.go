package llm

import "context"

// Generator is the minimal interface any provider client must implement to
// serve generation requests.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Request is one model id and prompt pair.
type Request struct {
	Model  string
	Prompt string
}

// Result holds either the generated text or the provider's error message.
type Result struct {
	Text string
	Err  string
}

// Failed reports whether the provider call failed.
func (r Result) Failed() bool {
	return r.Err != ""
}

// Run performs a single provider call and folds its outcome into a Result.
// The error text is kept verbatim.
func Run(ctx context.Context, g Generator, req Request) Result {
	text, err := g.Generate(ctx, req.Model, req.Prompt)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "generation failed"
		}
		return Result{Err: msg}
	}
	return Result{Text: text}
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}
