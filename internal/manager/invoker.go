package manager

import (
	"context"
	"fmt"

	"ollamarouter/internal/catalog"
	"ollamarouter/internal/core"
	"ollamarouter/internal/ledger"
	"ollamarouter/internal/ollama"
	"ollamarouter/internal/util"
)

// Invoker runs one generation against the backend and feeds the outcome
// into the ledger and catalog. Every attempt, success or failure,
// produces exactly one ledger observation. Expected failures come back
// as a structured result, never as an error.
type Invoker struct {
	client  *ollama.Client
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	clock   core.Clock
	logger  core.Logger
}

// NewInvoker creates an invoker over the shared backend client.
func NewInvoker(client *ollama.Client, cat *catalog.Catalog, led *ledger.Ledger, clock core.Clock, logger core.Logger) *Invoker {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Invoker{
		client:  client,
		catalog: cat,
		ledger:  led,
		clock:   clock,
		logger:  logger,
	}
}

// Generate sends the prompt to the named model, times the call, and
// records the observation. Caller context, when present, is prepended to
// the prompt. The token count is estimated from the response text.
func (inv *Invoker) Generate(ctx context.Context, model string, req *core.GenerateRequest) *core.GenerateResult {
	prompt := req.Prompt
	if req.Context != "" {
		prompt = fmt.Sprintf(core.ContextPromptFormat, req.Context, req.Prompt)
	}

	taskType := req.TaskType
	if taskType == "" {
		taskType = core.TaskGeneralChat
	}

	genCtx, cancel := context.WithTimeout(ctx, core.GenerateTimeout)
	defer cancel()

	start := inv.clock.Now()
	resp, err := inv.client.Generate(genCtx, &core.OllamaGenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Options: req.Options,
	})
	elapsed := inv.clock.Now().Sub(start).Seconds()

	if err != nil {
		inv.logger.Error("Error generating response with %s: %v", model, err)
		if score, ok := inv.ledger.Record(model, taskType, elapsed, 0, false); ok {
			inv.catalog.UpdateScore(model, score)
		}
		return &core.GenerateResult{
			Success:      false,
			Model:        model,
			ResponseTime: elapsed,
			Error:        err.Error(),
		}
	}

	tokens := util.EstimateTokens(resp.Response)
	if score, ok := inv.ledger.Record(model, taskType, elapsed, tokens, true); ok {
		inv.catalog.UpdateScore(model, score)
	}
	inv.catalog.TouchLastUsed(model)

	return &core.GenerateResult{
		Success:      true,
		Response:     resp.Response,
		Model:        model,
		ResponseTime: elapsed,
		TokenCount:   tokens,
	}
}
