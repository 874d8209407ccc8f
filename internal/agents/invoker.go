// internal/agents/invoker.go
package agents

import (
	"context"
	"strings"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// Invoker abstracts one synchronous agent exchange. The production
// implementation consumes the response event stream; tests substitute a
// canned one.
type Invoker interface {
	Invoke(ctx context.Context, agentID, aliasID, sessionID, input string) (string, error)
}

type runtimeAPI interface {
	InvokeAgent(ctx context.Context, input *bedrockagentruntime.InvokeAgentInput) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// RuntimeInvoker calls the hosted agent runtime and concatenates the
// streamed completion chunks.
type RuntimeInvoker struct {
	api runtimeAPI
}

func NewRuntimeInvoker(api runtimeAPI) *RuntimeInvoker {
	return &RuntimeInvoker{api: api}
}

func (r *RuntimeInvoker) Invoke(ctx context.Context, agentID, aliasID, sessionID, input string) (string, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock-agent-runtime", "InvokeAgent").Inc()

	out, err := r.api.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(agentID),
		AgentAliasId: aws.String(aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(input),
	})
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent-runtime", "InvokeAgent", "error").Inc()
		return "", errors.FromAWS("invoke agent", err)
	}

	stream := out.GetStream()
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*types.ResponseStreamMemberChunk); ok {
			sb.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeAgentInvokeFailed, "agent response stream failed", true, err)
	}
	return sb.String(), nil
}
