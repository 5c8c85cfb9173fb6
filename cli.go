package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbabazielroy/portfolio/internal/llm"
	"github.com/mbabazielroy/portfolio/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Rank the built-in project catalog against a query",
	Long:  "Runs the local keyword recommender over the built-in catalog and prints the result. An empty query prints the default picks.",
	RunE:  runRecommend,
}

var llmHealthCmd = &cobra.Command{
	Use:   "llm-health",
	Short: "Send a health check message to the configured language model",
	RunE:  runLLMHealth,
}

var (
	recommendMax     int
	recommendPersona string
	recommendJSON    bool
	llmHealthTimeout time.Duration
)

func init() {
	recommendCmd.Flags().IntVarP(&recommendMax, "max", "n", recommend.DefaultMax, "Maximum number of ranked results")
	recommendCmd.Flags().StringVarP(&recommendPersona, "persona", "p", string(recommend.PersonaAssistant), "Persona: assistant, recruiter, engineer, founder")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the structured result as JSON")

	llmHealthCmd.Flags().DurationVar(&llmHealthTimeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(recommendCmd, llmHealthCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	result := recommend.Recommend(query, Catalog, recommendMax, recommend.ParsePersona(recommendPersona))
	return printRecommendation(cmd.OutOrStdout(), result, recommendJSON)
}

func printRecommendation(w io.Writer, result recommend.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprintln(w, result.Render())
	return err
}

func runLLMHealth(cmd *cobra.Command, _ []string) error {
	llmCfg := cfg.LLM()
	completer, err := llm.NewCompleter(cmd.Context(), llmCfg)
	if err != nil {
		return fmt.Errorf("LLM health failed: %w", err)
	}
	if c, ok := completer.(io.Closer); ok {
		defer c.Close()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), llmHealthTimeout)
	defer cancel()
	return checkLLM(ctx, cmd.OutOrStdout(), completer, modelName(completer, llmCfg.Model))
}

// checkLLM prints the first 80 characters of the model's reply.
func checkLLM(ctx context.Context, w io.Writer, completer llm.Completer, model string) error {
	content, err := completer.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: "health check"}})
	if err != nil {
		return fmt.Errorf("LLM health failed: %w", err)
	}

	preview := []rune(strings.TrimSpace(content))
	if len(preview) > 80 {
		preview = preview[:80]
	}
	_, err = fmt.Fprintf(w, "LLM OK (%s): %s\n", model, string(preview))
	return err
}

// modelName reports the model a completer actually uses, if it says.
func modelName(c llm.Completer, fallback string) string {
	if m, ok := c.(interface{ Model() string }); ok && m.Model() != "" {
		return m.Model()
	}
	return fallback
}
