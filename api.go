package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbabazielroy/portfolio/internal/chat"
	"github.com/mbabazielroy/portfolio/internal/llm"
	"github.com/mbabazielroy/portfolio/internal/logging"
	"github.com/mbabazielroy/portfolio/internal/recommend"
)

type chatRequest struct {
	Message       string        `json:"message" binding:"required,max=2000"`
	History       []llm.Message `json:"history" binding:"max=40,dive"`
	Persona       string        `json:"persona"`
	ForceProjects bool          `json:"forceProjects"`
}

type chatResponse struct {
	chat.Reply
	// Markdown is the reply with any recommendations rendered inline.
	Markdown     string   `json:"markdown"`
	QuickPrompts []string `json:"quickPrompts"`
}

func (a *app) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply := a.chat.Handle(c.Request.Context(), chat.Request{
		Message:       req.Message,
		Transcript:    req.History,
		Persona:       recommend.ParsePersona(req.Persona),
		ForceProjects: req.ForceProjects,
	})

	markdown := reply.Text
	if reply.Recommendations != nil {
		a.metrics.RecordRecommendation(reply.Recommendations.Ranked)
		markdown = reply.Recommendations.Render()
	}

	c.JSON(http.StatusOK, chatResponse{Reply: reply, Markdown: markdown, QuickPrompts: chat.QuickPrompts})
}

type recommendationRequest struct {
	Query    string              `json:"query" binding:"required,max=500"`
	Projects []recommend.Project `json:"projects"`
	Max      int                 `json:"max" binding:"omitempty,min=1,max=20"`
	Persona  string              `json:"persona"`
}

type recommendationResponse struct {
	Recommendation string           `json:"recommendation"`
	Source         string           `json:"source"`
	Result         recommend.Result `json:"result"`
}

const recommendationSystemPrompt = `You are a helpful project recommendation assistant.
Your task is to recommend projects from the portfolio based on the user's interests.
Be conversational, friendly, and provide specific reasons why each project matches their interests.
Format your response with project names in bold using markdown (**Project Name**).`

func (a *app) handleRecommendations(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	projects := req.Projects
	if len(projects) == 0 {
		projects = a.catalog
	}
	limit := req.Max
	if limit == 0 {
		limit = a.cfg.MaxRecommendations
	}

	result := recommend.Recommend(req.Query, projects, limit, recommend.ParsePersona(req.Persona))
	a.metrics.RecordRecommendation(result.Ranked)

	resp := recommendationResponse{Recommendation: result.Render(), Source: chat.SourceLocal, Result: result}
	if text, err := a.askForRecommendation(c.Request.Context(), req.Query, projects); err == nil {
		resp.Recommendation = text
		resp.Source = chat.SourceLLM
	} else if a.completer != nil {
		logging.Warn().Err(err).Msg("llm recommendation failed, using local engine")
	}

	c.JSON(http.StatusOK, resp)
}

type promptProject struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Technologies []string          `json:"technologies"`
	Links        map[string]string `json:"links"`
}

func (a *app) askForRecommendation(ctx context.Context, query string, projects []recommend.Project) (string, error) {
	if a.completer == nil {
		a.metrics.RecordLLM("unconfigured")
		return "", llm.ErrNotConfigured
	}

	data := make([]promptProject, 0, len(projects))
	for _, p := range projects {
		data = append(data, promptProject{
			Title:        p.Title,
			Description:  p.Description,
			Technologies: p.Tags,
			Links:        map[string]string{"github": p.GithubURL, "live": p.LiveURL},
		})
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode projects: %w", err)
	}

	text, err := a.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: recommendationSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("I'm interested in: %s\n\nHere are the available projects:\n%s", query, encoded)},
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyContent
	}
	if err != nil {
		a.metrics.RecordLLM("failure")
		return "", err
	}
	a.metrics.RecordLLM("success")
	return text, nil
}

type llmProxyRequest struct {
	Messages []llm.Message `json:"messages" binding:"required,min=1,max=40,dive"`
}

// handleLLMProxy lets browser clients use the server's model without holding
// an API key.
func (a *app) handleLLMProxy(c *gin.Context) {
	var req llmProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages array required"})
		return
	}

	if a.completer == nil {
		a.metrics.RecordLLM("unconfigured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No language model is configured on the server."})
		return
	}

	content, err := a.completer.Complete(c.Request.Context(), req.Messages)
	if err != nil {
		a.metrics.RecordLLM("failure")
		logging.Error().Err(err).Msg("llm proxy request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "LLM request failed"})
		return
	}

	a.metrics.RecordLLM("success")
	c.JSON(http.StatusOK, gin.H{"content": content, "model": a.model, "source": a.provider})
}

func (a *app) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "llm": "unconfigured", "database": "ok"}

	if err := a.store.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}
	if a.completer != nil {
		body["llm"] = "configured"
		if a.breaker != nil {
			body["llm"] = a.breaker.State()
		}
	}

	c.JSON(status, body)
}

func (a *app) handleVCard(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=elroy-mbabazi.vcf")
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(vCard(Contact)))
}
