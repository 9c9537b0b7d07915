package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalagman/fitgenius/internal/model/openaiapi"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/rs/zerolog/log"
)

// OpenAI invokes OpenAI models through the Responses API.
type OpenAI struct {
	client *openaiapi.Client
}

// NewOpenAI wraps an OpenAI API client as an Invoker.
func NewOpenAI(client *openaiapi.Client) *OpenAI {
	return &OpenAI{client: client}
}

// Invoke implements Invoker. Media attachments are sent as data URI images.
func (o *OpenAI) Invoke(ctx context.Context, req Request) (schema.Value, error) {
	images := make([]string, 0, len(req.Prompt.Media))
	for _, m := range req.Prompt.Media {
		images = append(images, schema.DataURI{ContentType: m.ContentType, Data: m.Data}.String())
	}

	text, err := o.client.Generate(ctx, openaiapi.Request{
		Instructions: Instructions(req),
		Prompt:       req.Prompt.Text,
		Images:       images,
		Schema:       req.OutputSchema,
		FormatName:   req.Flow,
	})
	if err != nil {
		return nil, classifyOpenAI(err)
	}
	log.Debug().Str("flow", req.Flow).Str("model", o.client.Model()).Int("bytes", len(text)).Msg("openai response received")
	return DecodeOutput([]byte(text))
}

func classifyOpenAI(err error) error {
	if errors.Is(err, openaiapi.ErrEmptyOutput) {
		return Fail(MalformedResponse, err)
	}
	if code := openaiapi.StatusCode(err); code != 0 {
		return Fail(KindForStatus(code), err)
	}
	return Classify(fmt.Errorf("run openai flow: %w", err))
}
