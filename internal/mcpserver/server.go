// Package mcpserver publishes every catalog flow as an MCP tool.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metalagman/fitgenius/internal/catalog"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const serverName = "fitgenius"

// New builds an MCP server with one tool per flow.
func New(c *catalog.Catalog, version string) (*mcp.Server, error) {
	if c == nil {
		return nil, errors.New("mcpserver: catalog is required")
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	for _, def := range c.Definitions() {
		server.AddTool(&mcp.Tool{
			Name:         def.Name(),
			Description:  def.Description(),
			InputSchema:  def.Input().JSONSchema(),
			OutputSchema: def.Output().JSONSchema(),
		}, toolHandler(c, def))
	}
	return server, nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, c *catalog.Catalog, version string) error {
	server, err := New(c, version)
	if err != nil {
		return err
	}
	log.Info().Strs("tools", c.Names()).Msg("mcp server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}

func toolHandler(c *catalog.Catalog, def *flow.Definition) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return toolError(err.Error()), nil
		}
		out, err := c.Orchestrator().Execute(ctx, def, input)
		if err != nil {
			return toolError(describeFailure(err)), nil
		}
		text, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshal %s output: %w", def.Name(), err)
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
			StructuredContent: out,
		}, nil
	}
}

func decodeArguments(raw json.RawMessage) (schema.Value, error) {
	input := schema.Value{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return input, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if input == nil {
		input = schema.Value{}
	}
	return input, nil
}

func describeFailure(err error) string {
	fe, ok := flow.AsError(err)
	if !ok {
		return err.Error()
	}
	switch {
	case fe.Kind == flow.InvocationFailed:
		return fmt.Sprintf("%s: %s", fe.Kind, fe.Invocation)
	case fe.Field != "":
		return fmt.Sprintf("%s: field %q: %s", fe.Kind, fe.Field, fe.Reason)
	default:
		return fmt.Sprintf("%s: %s", fe.Kind, fe.Reason)
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
