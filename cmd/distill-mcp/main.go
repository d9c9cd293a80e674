package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/distill/bm25"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/stemmer"
)

func main() {
	s := server.NewMCPServer(
		"distill",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	// The pipeline runs in-process; no service or API key needed.
	cl := cleaner.NewCleaner()

	distillTool := mcp.NewTool("distill_html",
		mcp.WithDescription("Distill raw HTML into clean, LLM-ready markdown. Strips boilerplate (navigation, ads, footers, scripts) and reports token savings."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The raw HTML document to distill"),
		),
		mcp.WithString("url",
			mcp.Description("The page's source URL, used to resolve relative links"),
		),
		mcp.WithString("filter_mode",
			mcp.Description("Content selection mode: 'readability' (default, extracts main article), 'raw' (no selection), 'pruning' (score-based boilerplate removal), 'bm25' (query-relevance filtering), or 'auto' (automatic selection)"),
			mcp.Enum("readability", "raw", "pruning", "bm25", "auto"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'text' (plain text), 'html', or 'markdown_citations'"),
			mcp.Enum("markdown", "text", "html", "markdown_citations"),
		),
		mcp.WithString("query",
			mcp.Description("Relevance query for bm25 mode; derived from the page itself when omitted"),
		),
	)
	s.AddTool(distillTool, handleDistillHTML(cl))

	rankTool := mcp.NewTool("rank_texts",
		mcp.WithDescription("Score plain-text documents against a query with BM25 ranking. Returns one relevance score per document, in input order."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query to rank against"),
		),
		mcp.WithArray("documents",
			mcp.Required(),
			mcp.Description("List of plain-text documents to score"),
		),
	)
	s.AddTool(rankTool, handleRankTexts())

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleDistillHTML(cl *cleaner.Cleaner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		html, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}

		url := request.GetString("url", "")
		filterMode := request.GetString("filter_mode", "readability")
		outputFormat := request.GetString("output_format", "markdown")
		query := request.GetString("query", "")

		resp, err := cl.Clean(html, url, outputFormat, filterMode, cleaner.CleanOptions{
			Query: query,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("distillation failed: %v", err)), nil
		}

		// Build result with metadata header.
		var sb strings.Builder
		if resp.Metadata.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", resp.Metadata.Title))
		}
		if resp.Metadata.SourceURL != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", resp.Metadata.SourceURL))
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(resp.Content)

		sb.WriteString(fmt.Sprintf("\n\n---\nTokens: %d (saved %.0f%% from original %d)",
			resp.Tokens.CleanedEstimate, resp.Tokens.SavingsPercent, resp.Tokens.OriginalEstimate))

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleRankTexts() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		documents, err := request.RequireStringSlice("documents")
		if err != nil {
			return mcp.NewToolResultError("documents is required and must be an array of strings"), nil
		}

		prepare := func(text string) []string {
			return bm25.CleanTokens(stemmer.StemAll(bm25.Tokenize(text)))
		}

		corpus := make([][]string, len(documents))
		for i, d := range documents {
			corpus[i] = prepare(d)
		}

		ranker := bm25.NewRanker(corpus)
		scores := ranker.GetScores(prepare(query))

		// One line per document: rank score and a short excerpt.
		var sb strings.Builder
		for i, score := range scores {
			excerpt := documents[i]
			if runes := []rune(excerpt); len(runes) > 60 {
				excerpt = string(runes[:60]) + "..."
			}
			sb.WriteString(fmt.Sprintf("[%d] %.4f  %s\n", i+1, score, excerpt))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
