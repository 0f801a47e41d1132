package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anveshk/workflowgen/internal/adapter/utils"
	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/rag"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Server exposes the workflow over MCP so agent clients can call the
// same operations the HTTP API offers, minus the async job envelope:
// tool calls block until the graph finishes.
type Server struct {
	mcp        *mcp.Server
	ragService rag.Service
	logger     *applog.Logger
}

type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"optional document id to restrict retrieval to"`
}

type AskOutput struct {
	Answer  string   `json:"answer" jsonschema:"the generated answer"`
	Sources []string `json:"sources" jsonschema:"provenance references of the retrieved chunks"`
	Intent  string   `json:"intent" jsonschema:"the resolved intent, qa or summary"`
}

type SummarizeInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to summarize"`
}

type SummarizeOutput struct {
	Summary string   `json:"summary" jsonschema:"the labelled summary text"`
	Sources []string `json:"sources" jsonschema:"provenance references of the summarized chunks"`
}

type ListDocumentsInput struct{}

type DocumentInfo struct {
	Id        string `json:"id" jsonschema:"document id"`
	Title     string `json:"title" jsonschema:"document title"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 creation time"`
}

type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents" jsonschema:"all ingested documents"`
}

func NewServer(ragService rag.Service) (*Server, error) {
	if ragService == nil {
		return nil, errors.New("rag service is required")
	}

	s := &Server{
		ragService: ragService,
		logger:     applog.NewLogger("MCPServer"),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "workflowgen",
			Version: "1.0.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the ingested document corpus. Optionally scoped to a single document by id. The answer cites chunk-level sources.",
	}, s.askHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Produce a labelled summary of one ingested document.",
	}, s.summarizeHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the ingested documents with their ids and titles.",
	}, s.listDocumentsHandler)

	s.logger.Info("MCP tools registered", "count", 3)
}

func (s *Server) askHandler(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	ctx = withTrace(ctx)

	res, err := s.ragService.Ask(ctx, input.Question, input.DocumentID)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}
	return nil, AskOutput{Answer: res.Answer, Sources: res.Sources, Intent: res.Intent}, nil
}

func (s *Server) summarizeHandler(ctx context.Context, req *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
	ctx = withTrace(ctx)

	res, err := s.ragService.Summarize(ctx, input.DocumentID)
	if err != nil {
		return nil, SummarizeOutput{}, toolError(err)
	}
	return nil, SummarizeOutput{Summary: res.Answer, Sources: res.Sources}, nil
}

func (s *Server) listDocumentsHandler(ctx context.Context, req *mcp.CallToolRequest, input ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	ctx = withTrace(ctx)

	docs, err := s.ragService.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, toolError(err)
	}

	out := ListDocumentsOutput{Documents: make([]DocumentInfo, 0, len(docs))}
	for _, doc := range docs {
		out.Documents = append(out.Documents, DocumentInfo{
			Id:        doc.Id,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return nil, out, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server on stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", "error", err)
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}

// withTrace stamps every tool call with its own trace id, same as the
// HTTP middleware does for requests.
func withTrace(ctx context.Context) context.Context {
	return context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())
}

// toolError strips the internal error chain down to something safe to
// surface to an MCP client.
func toolError(err error) error {
	switch {
	case ragerr.IsValidation(err), ragerr.IsNotFound(err):
		return err
	default:
		return errors.New("upstream dependency failed, try again later")
	}
}
