package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var mcpServerLog = logger.New("cli:mcp_server")

// NewMCPServerCommand creates the mcp-server command
func NewMCPServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server exposing workflow validation",
		Long: `Run a Model Context Protocol server over stdio that exposes workflow
validation as a tool. Agents connected to the server call validate_workflows
to run the gates and receive the JSON report.

The server speaks MCP on stdin/stdout, so all human-facing output goes to
stderr.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` mcp-server    # Serve until the client disconnects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServer(cmd.Context())
		},
	}
	return cmd
}

// validateWorkflowsArgs is the input contract of the validate_workflows tool.
type validateWorkflowsArgs struct {
	Dir    string   `json:"dir,omitempty"`
	Files  []string `json:"files,omitempty"`
	Quick  bool     `json:"quick,omitempty"`
	Strict bool     `json:"strict,omitempty"`
}

// validateWorkflowsSchema describes the tool input to MCP clients.
var validateWorkflowsSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"dir": {
			Type:        "string",
			Description: "Workflow directory to validate (default: .github/workflows)",
		},
		"files": {
			Type:        "array",
			Items:       &jsonschema.Schema{Type: "string"},
			Description: "Explicit workflow files to validate instead of a directory",
		},
		"quick": {
			Type:        "boolean",
			Description: "Run only the syntax and reference-pinning gates",
		},
		"strict": {
			Type:        "boolean",
			Description: "Treat warnings as failures",
		},
	},
}

// runMCPServer serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func runMCPServer(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gh-wfgate",
		Version: GetVersion(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "validate_workflows",
		Description: "Validate GitHub Actions workflow files against the syntax, " +
			"reference-pinning, permission, secret-hygiene, and antipattern gates. " +
			"Returns a JSON report with per-gate findings and suite totals.",
		InputSchema: validateWorkflowsSchema,
	}, handleValidateWorkflows)

	fmt.Fprintln(os.Stderr, console.FormatProgressMessage("MCP server listening on stdio..."))
	mcpServerLog.Print("Starting MCP server on stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server stopped: %w", err)
	}
	return nil
}

// handleValidateWorkflows runs one validation pass for an MCP tool call.
// Fatal errors come back as in-band tool errors rather than protocol
// failures, so the client sees what went wrong.
func handleValidateWorkflows(ctx context.Context, req *mcp.CallToolRequest, args validateWorkflowsArgs) (*mcp.CallToolResult, any, error) {
	dir := args.Dir
	if dir == "" {
		dir = constants.GetWorkflowDir()
	}
	mcpServerLog.Printf("Tool call validate_workflows: dir=%s, files=%d, quick=%v, strict=%v",
		dir, len(args.Files), args.Quick, args.Strict)

	opts := &ValidateOptions{
		Dir:    dir,
		Files:  args.Files,
		Quick:  args.Quick,
		Strict: args.Strict,
		Format: FormatJSON,
	}

	var report bytes.Buffer
	suite, err := runValidation(ctx, opts, &report)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("validation failed: %v", err)}},
		}, nil, nil
	}

	mcpServerLog.Printf("Tool call complete: status=%s, exit=%d", suite.Status, suite.ExitCode)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.String()}},
	}, nil, nil
}
