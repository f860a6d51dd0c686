package agentboot

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/llm"
	"go.uber.org/zap"
)

// RunTool logs and reports a model tool call, then dispatches it.
func (a *Agent) RunTool(ctx context.Context, call llm.ToolCallPart) (any, error) {
	logger.Info("Running tool", zap.String("tool", call.Name), zap.Any("arguments", call.Arguments))
	a.config.Reporter.ToolStarted(call.Name, call.Arguments)

	result, err := a.registry.Dispatch(ctx, call.Name, call.Arguments)
	a.config.Reporter.ToolFinished(call.Name, err)
	if err != nil {
		logger.Error("Tool call failed", zap.String("tool", call.Name), zap.Error(err))
		return nil, err
	}
	return result, nil
}
