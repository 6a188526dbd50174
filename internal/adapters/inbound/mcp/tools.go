package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/audit"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/config"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/history"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
)

// registerTools registers all shipgate MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, logger *zap.Logger) {
	// 1. shipgate_verify
	s.AddTool(
		mcplib.NewTool("shipgate_verify",
			mcplib.WithDescription("Verify the compiled web build and return the verification report as JSON"),
			mcplib.WithString("build_dir", mcplib.Description("Build directory relative to the project (defaults to the configured one)")),
			mcplib.WithBoolean("extended_audit", mcplib.Description("Also run the configured quality audit")),
		),
		handleVerify(projectPath, logger),
	)

	// 2. shipgate_analyze
	s.AddTool(
		mcplib.NewTool("shipgate_analyze",
			mcplib.WithDescription("Estimate the compressed bundle size and return the analysis with its budget decision"),
			mcplib.WithString("build_dir", mcplib.Description("Build directory relative to the project (defaults to the configured one)")),
		),
		handleAnalyze(projectPath, logger),
	)

	// 3. shipgate_history
	s.AddTool(
		mcplib.NewTool("shipgate_history",
			mcplib.WithDescription("Return the logs of past release runs, newest last"),
			mcplib.WithNumber("limit", mcplib.Description("Return at most this many of the newest runs")),
		),
		handleHistory(projectPath),
	)
}

// workspaceFor loads the project config and applies the tool arguments.
func workspaceFor(projectPath string, request mcplib.CallToolRequest) (application.Workspace, domain.GateConfig, error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return application.Workspace{}, cfg, err
	}
	args := request.GetArguments()
	if dir, _ := args["build_dir"].(string); dir != "" {
		cfg.BuildDir = dir
	}
	if ext, _ := args["extended_audit"].(bool); ext {
		cfg.RunExtendedAudit = true
	}

	ws := application.NewWorkspace(projectPath, cfg)
	if hash, err := gitinfo.New().CommitHash(projectPath); err == nil {
		ws.CommitHash = hash
	}
	return ws, cfg, nil
}

func handleVerify(projectPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		ws, cfg, err := workspaceFor(projectPath, request)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		svc := application.NewVerifyService(scanner.New(), audit.New(cfg.Audit, logger), report.New(), logger)
		rep, err := svc.Verify(ctx, ws, cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("verification failed: %v", err)), nil
		}
		return jsonResult(rep)
	}
}

func handleAnalyze(projectPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		ws, cfg, err := workspaceFor(projectPath, request)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		analysis, err := application.NewAnalyzeService(scanner.New(), report.New(), logger).Analyze(ctx, ws, cfg)
		var breach *domain.BudgetBreachError
		if err != nil && !errors.As(err, &breach) {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		// A breach is part of the answer, not a tool failure.
		return jsonResult(analysis)
	}
}

func handleHistory(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		logs, err := history.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history: %v", err)), nil
		}
		limit, _ := request.GetArguments()["limit"].(float64)
		if n := int(limit); n > 0 && len(logs) > n {
			logs = logs[len(logs)-n:]
		}
		if logs == nil {
			logs = []domain.DeploymentLog{}
		}
		return jsonResult(logs)
	}
}

// jsonResult marshals v and wraps it in a CallToolResult with text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
