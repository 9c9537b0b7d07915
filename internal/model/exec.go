package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/metalagman/ainvoke"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/rs/zerolog/log"
)

const execInputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "flow": { "type": "string" },
    "prompt": { "type": "string" }
  },
  "required": ["flow", "prompt"]
}`

// ExecConfig configures a local CLI agent backend.
type ExecConfig struct {
	Cmd     []string
	UseTTY  bool
	// Timeout bounds each agent run. Zero means the default of 60s.
	Timeout time.Duration
	// Stderr receives the agent's stderr; nil discards it.
	Stderr  io.Writer
}

type execInput struct {
	Flow   string `json:"flow"`
	Prompt string `json:"prompt"`
}

// Exec runs a local agent command per call through ainvoke. The rendered
// prompt is passed as the system prompt and the output contract as the
// output schema.
type Exec struct {
	runner  ainvoke.Runner
	stderr  io.Writer
	timeout time.Duration
}

// NewExec constructs an exec invoker.
func NewExec(cfg ExecConfig) (*Exec, error) {
	if len(cfg.Cmd) == 0 {
		return nil, fmt.Errorf("exec backend requires cmd")
	}
	runner, err := ainvoke.NewRunner(ainvoke.AgentConfig{
		Cmd:    cfg.Cmd,
		UseTTY: cfg.UseTTY,
	})
	if err != nil {
		return nil, fmt.Errorf("create exec runner: %w", err)
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Exec{runner: runner, stderr: stderr, timeout: timeout}, nil
}

// Invoke implements Invoker.
func (e *Exec) Invoke(ctx context.Context, req Request) (schema.Value, error) {
	if len(req.Prompt.Media) > 0 {
		return nil, Failf(Unavailable, "exec backend does not accept media attachments")
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	outputSchema, err := json.Marshal(req.OutputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal output schema: %w", err)
	}

	runDir, err := os.MkdirTemp("", "fitgenius-exec-*")
	if err != nil {
		return nil, Fail(Unavailable, fmt.Errorf("create run dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log.Warn().Err(err).Str("dir", runDir).Msg("failed to remove exec run dir")
		}
	}()

	inv := ainvoke.Invocation{
		RunDir:       runDir,
		SystemPrompt: Instructions(req) + "\n\n" + req.Prompt.Text,
		Input:        execInput{Flow: req.Flow, Prompt: req.Prompt.Text},
		InputSchema:  execInputSchema,
		OutputSchema: string(outputSchema),
	}
	out, _, exitCode, err := e.runner.Run(ctx, inv, ainvoke.WithStdout(io.Discard), ainvoke.WithStderr(e.stderr))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, Fail(KindOf(ctxErr), fmt.Errorf("run exec agent: %w", ctxErr))
	}
	if err != nil {
		return nil, Fail(Unavailable, fmt.Errorf("run exec agent: %w", err))
	}
	if exitCode != 0 {
		return nil, Failf(Unavailable, "exec agent exited with code %d", exitCode)
	}
	return DecodeOutput(out)
}
