package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/loanx-agent/server/internal/agent/model"
	errx "github.com/loanx-agent/server/internal/core/error"
	"github.com/loanx-agent/server/internal/quote"
)

// Tool names as registered with the model.
const (
	ToolGetRate = "get_rate"
)

// GetQueryTools builds the business tool set backed by the given
// calculator. cache may be nil to disable quote caching.
func GetQueryTools(calc *quote.Calculator, cache model.QuoteRepository) []tool.BaseTool {
	return []tool.BaseTool{
		createGetRateTool(calc, cache),
	}
}

// GetToolInfos collects the schema info of each tool for model binding.
func GetToolInfos(ctx context.Context, baseTools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(baseTools))
	for _, t := range baseTools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, errx.New(err, errx.KindInternal, "failed to get tool info")
		}
		infos = append(infos, info)
	}
	return infos, nil
}
