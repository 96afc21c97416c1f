package agent

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/arjun/kubera/internal/governance"
	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/plan"
	"github.com/arjun/kubera/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// Executor runs one task through a reasoning loop: the model decides on
// tool calls, the results are fed back as observations, and the loop
// ends with a text answer. Every tool call is checked against policy
// first.
type Executor struct {
	Type     string
	Name     string
	Model    llms.Model
	Tools    []tools.Tool
	Prompt   string
	Policy   governance.PolicyEngine
	Logger   *observability.Logger
	MaxSteps int
}

func (e *Executor) Execute(ctx context.Context, chatID string, task *plan.Task) (string, error) {
	ctx = context.WithValue(ctx, tools.ChatIDKey, chatID)

	input := fmt.Sprintf("Task: %s\nDescription: %s\nParameters: %s",
		task.Name, task.Description, formatParams(task.Parameters))

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(e.Prompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(input)},
		},
	}

	var llmTools []llms.Tool
	for _, t := range e.Tools {
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	maxSteps := e.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 10
	}

	var finalResponse string

	for i := 0; i < maxSteps; i++ {
		var opts []llms.CallOption
		if len(llmTools) > 0 {
			opts = append(opts, llms.WithTools(llmTools))
		}

		resp, err := e.Model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%s received an empty model response", e.Name)
		}

		choice := resp.Choices[0]
		e.Logger.LogLLM(chatID, task.ID, nil, choice.Content, choice.ToolCalls)

		var assistantParts []llms.ContentPart
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, tc := range choice.ToolCalls {
			assistantParts = append(assistantParts, tc)
		}

		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		// No tool calls means this is the final answer.
		if len(choice.ToolCalls) == 0 {
			finalResponse = choice.Content
			break
		}

		for _, tc := range choice.ToolCalls {
			result := e.runTool(ctx, chatID, task.ID, tc.FunctionCall.Name, tc.FunctionCall.Arguments, i+1)

			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}
	}

	if finalResponse == "" {
		return "", fmt.Errorf("%s reached the maximum reasoning steps without an answer", e.Name)
	}

	return finalResponse, nil
}

func (e *Executor) runTool(ctx context.Context, chatID, taskID, name, args string, step int) string {
	var tool tools.Tool
	for _, t := range e.Tools {
		if t.Name() == name {
			tool = t
			break
		}
	}
	if tool == nil {
		return fmt.Sprintf("Error: Tool %s not found", name)
	}

	verdict, err := e.Policy.Evaluate(ctx, governance.Request{
		Tool:      name,
		Arguments: args,
		ChatID:    chatID,
	})
	if err != nil {
		return fmt.Sprintf("Error: policy evaluation failed: %v", err)
	}
	e.Logger.LogPolicyCheck(chatID, name, string(verdict.Effect), verdict.Reason)
	if verdict.Effect == governance.EffectDeny {
		return fmt.Sprintf("Error: tool call denied by policy: %s", verdict.Reason)
	}

	e.Logger.LogToolCall(chatID, taskID, name, args)
	log.Printf("[%s step %d] Executing tool %s with args: %s", e.Name, step, name, args)

	res, err := tool.Execute(ctx, args)
	if err != nil {
		res = fmt.Sprintf("Error: %v", err)
	}
	log.Printf("[%s step %d] Tool %s returned %d bytes", e.Name, step, name, len(res))

	return res
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return strings.Join(parts, ", ")
}
