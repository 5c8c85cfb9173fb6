package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbabazielroy/portfolio/internal/chat"
	"github.com/mbabazielroy/portfolio/internal/config"
	"github.com/mbabazielroy/portfolio/internal/llm"
	"github.com/mbabazielroy/portfolio/internal/recommend"
)

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (m *fakeMailer) Send(name, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, name)
	return nil
}

type fakeCompleter struct {
	reply string
	err   error
	got   []llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.got = messages
	return f.reply, f.err
}

func newTestApp(t *testing.T) (*app, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := config.Default()
	c.DatabasePath = ":memory:"
	c.LLMProvider = llm.ProviderNone
	c.AdminPassword = "s3cret"
	c.SessionSecret = "test-secret"
	c.RateLimitPerMinute = 0

	a, err := newApp(context.Background(), &c)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	a.mailer = &fakeMailer{}
	return a, a.router()
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSiteRoutes(t *testing.T) {
	_, r := newTestApp(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", "Elroy Mbabazi"},
		{"/", "Bgcdllc - General Contractor"},
		{"/", "Show AI projects"},
		{"/work-content", "Mbabazi Technologies Inc."},
		{"/education-content", "University of Washington Tacoma"},
		{"/contact-form", `name="fullName"`},
		{"/privacy", "365 days"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doGet(r, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestStaticAssets(t *testing.T) {
	_, r := newTestApp(t)

	w := doGet(r, "/static/chat.js")
	require.Equal(t, http.StatusOK, w.Code)
	js := w.Body.String()
	assert.Contains(t, js, "/api/chat")
	assert.Contains(t, js, "if (pending) return;")
	assert.Contains(t, js, "'Thinking...'")
	assert.Contains(t, js, "thinking.remove()")
	assert.Contains(t, js, "if (data.retry)")
}

func TestBusinessCard(t *testing.T) {
	_, r := newTestApp(t)

	w := doGet(r, "/business-card.vcf")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vcard")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "elroy-mbabazi.vcf")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCARD\r\n"))
	assert.Contains(t, body, "TEL;TYPE=CELL:+14372210664")
	assert.Contains(t, body, "URL:https://www.linkedin.com/in/elroy-mbabazi/")
}

func TestContact(t *testing.T) {
	t.Run("stores and emails", func(t *testing.T) {
		a, r := newTestApp(t)

		w := doForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi there"}})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you for your message")
		assert.Equal(t, []string{"Ada"}, a.mailer.(*fakeMailer).sent)

		msgs, err := a.store.ListMessages(context.Background(), false)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "Hi there", msgs[0].Body)
	})

	t.Run("invalid form", func(t *testing.T) {
		a, r := newTestApp(t)

		w := doForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"not-an-email"}, "message": {"Hi"}})

		assert.Contains(t, w.Body.String(), "valid email")
		msgs, err := a.store.ListMessages(context.Background(), false)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("mail failure still succeeds once stored", func(t *testing.T) {
		a, r := newTestApp(t)
		a.mailer = &fakeMailer{err: errors.New("smtp down")}

		w := doForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}})

		assert.Contains(t, w.Body.String(), "Thank you for your message")
		msgs, err := a.store.ListMessages(context.Background(), true)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})
}

func TestSMTPMailer_ComposeKeepsHeadersIntact(t *testing.T) {
	m := &smtpMailer{user: "site@example.com", to: "owner@example.com"}

	msg := string(m.compose("Ada\r\nBcc: victim@example.com", "ada@example.com\nX-Evil: 1", "line one\nline two"))

	headers, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	lines := strings.Split(headers, "\r\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines, "Subject: Portfolio Contact: Ada Bcc: victim@example.com")
	assert.Contains(t, lines, "Reply-To: ada@example.com X-Evil: 1")
	assert.NotContains(t, headers, "\nBcc:")
	assert.Contains(t, body, "line one\nline two")
}

func TestContent_OnlySourcedEntries(t *testing.T) {
	var titles []string
	for _, p := range Catalog {
		titles = append(titles, p.Title)
		assert.True(t, p.HasLiveDemo(), p.Title)
	}
	assert.Equal(t, []string{"Bgcdllc - General Contractor", "Shine&Demure - cleaning products and services"}, titles)

	require.Len(t, WorkHistory, 1)
	assert.Equal(t, "Mbabazi Technologies Inc.", WorkHistory[0].Company)
	assert.Contains(t, WorkHistory[0].BulletPoints[0], "Sendly")
}

func TestChatAPI(t *testing.T) {
	a, r := newTestApp(t)

	t.Run("contact", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/chat", gin.H{"message": "How can I contact you?"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp chatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.IntentContact, resp.Intent)
		assert.Equal(t, Contact.Reply(), resp.Text)
		assert.Nil(t, resp.Recommendations)
		assert.Equal(t, chat.QuickPrompts, resp.QuickPrompts)
	})

	t.Run("projects", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/chat", gin.H{"message": "Can I see the projects?", "persona": "recruiter"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp chatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.IntentProjects, resp.Intent)
		require.NotNil(t, resp.Recommendations)
		assert.NotEmpty(t, resp.Recommendations.Items)
		assert.Contains(t, resp.Markdown, "**")
	})

	t.Run("general without a model", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/chat", gin.H{"message": "what is your favourite language?", "persona": "engineer"})

		var resp chatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.SourceFallback, resp.Source)
		assert.Equal(t, chat.FallbackReply("engineer"), resp.Text)
	})

	t.Run("general with a model", func(t *testing.T) {
		completer := &fakeCompleter{reply: "Go, mostly."}
		a.setCompleter(completer)
		defer a.setCompleter(nil)

		w := doJSON(r, http.MethodPost, "/api/chat", gin.H{
			"message": "what is your favourite language?",
			"history": []gin.H{{"role": "user", "content": "hi"}, {"role": "assistant", "content": "hello"}},
		})

		var resp chatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Go, mostly.", resp.Text)
		assert.Len(t, completer.got, 4)
	})

	t.Run("bad requests", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/chat", gin.H{}).Code)
		assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/chat", gin.H{
			"message": "hi",
			"history": []gin.H{{"role": "wizard", "content": "x"}},
		}).Code)
	})
}

func TestRecommendationsAPI(t *testing.T) {
	a, r := newTestApp(t)

	t.Run("missing query", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/recommendations", gin.H{"projects": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("local engine with caller projects", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/recommendations", gin.H{
			"query": "travel ai",
			"projects": []gin.H{
				{"title": "AI Travel Planner", "description": "Plans trips", "technologies": []string{"OpenAI API"}, "demo": "https://trips.example.com"},
				{"title": "Chess", "description": "Board game", "tags": []string{"Java"}},
			},
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp recommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.SourceLocal, resp.Source)
		assert.True(t, resp.Result.Ranked)
		assert.Equal(t, "AI Travel Planner", resp.Result.Items[0].Project.Title)
		assert.Equal(t, "https://trips.example.com", resp.Result.Items[0].Project.LiveURL)
		assert.Contains(t, resp.Recommendation, "**AI Travel Planner**")
	})

	t.Run("model answer", func(t *testing.T) {
		completer := &fakeCompleter{reply: "Try **Shine&Demure - cleaning products and services**."}
		a.setCompleter(completer)
		defer a.setCompleter(nil)

		w := doJSON(r, http.MethodPost, "/api/recommendations", gin.H{"query": "payments"})

		var resp recommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.SourceLLM, resp.Source)
		assert.Equal(t, "Try **Shine&Demure - cleaning products and services**.", resp.Recommendation)
		require.Len(t, completer.got, 2)
		assert.Contains(t, completer.got[1].Content, "I'm interested in: payments")
		assert.Contains(t, completer.got[1].Content, `"technologies"`)
	})

	t.Run("model failure falls back", func(t *testing.T) {
		a.setCompleter(&fakeCompleter{err: errors.New("timeout")})
		defer a.setCompleter(nil)

		w := doJSON(r, http.MethodPost, "/api/recommendations", gin.H{"query": "payments"})

		var resp recommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, chat.SourceLocal, resp.Source)
		assert.NotEmpty(t, resp.Recommendation)
	})
}

func TestLLMProxy(t *testing.T) {
	a, r := newTestApp(t)
	messages := gin.H{"messages": []gin.H{{"role": "user", "content": "hello"}}}

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/llm", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/llm", gin.H{"messages": "hello"}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(r, http.MethodPost, "/api/llm", messages).Code)

	a.setCompleter(&fakeCompleter{err: &llm.StatusError{Code: 500}})
	w := doJSON(r, http.MethodPost, "/api/llm", messages)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "500")

	a.setCompleter(&fakeCompleter{reply: "hi!"})
	a.model = "qwen2.5:0.5b"
	a.provider = llm.ProviderHTTP
	w = doJSON(r, http.MethodPost, "/api/llm", messages)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"hi!","model":"qwen2.5:0.5b","source":"http"}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	_, r := newTestApp(t)

	w := doGet(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","llm":"unconfigured","database":"ok"}`, w.Body.String())

	doJSON(r, http.MethodPost, "/api/chat", gin.H{"message": "contact"})
	w = doGet(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `portfolio_chat_intents_total{intent="contact"} 1`)
	assert.Contains(t, body, `portfolio_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	a, _ := newTestApp(t)
	a.limiter = newIPRateLimiter(2)
	r := a.router()

	assert.Equal(t, http.StatusOK, doGet(r, "/api/health").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/api/health").Code)
	w := doGet(r, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// Site pages are not limited.
	assert.Equal(t, http.StatusOK, doGet(r, "/contact-form").Code)
}

func TestCORS(t *testing.T) {
	_, r := newTestApp(t)
	h := withCORS(r, "https://elroy.dev, https://www.elroy.dev")

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://www.elroy.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://www.elroy.dev", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestVisitorTracking(t *testing.T) {
	a, r := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	doGet(r, "/static/site.css")
	doGet(r, "/work-content")

	assert.Eventually(t, func() bool {
		visits, err := a.store.RecentVisitors(context.Background(), 10)
		return err == nil && len(visits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	visits, err := a.store.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "/work-content", visits[0].Path)
	assert.Len(t, visits[0].HashedIP, 16)
}

func TestCheckLLM(t *testing.T) {
	var out bytes.Buffer
	err := checkLLM(context.Background(), &out, &fakeCompleter{reply: strings.Repeat("a", 100)}, "qwen2.5:0.5b")

	require.NoError(t, err)
	assert.Equal(t, "LLM OK (qwen2.5:0.5b): "+strings.Repeat("a", 80)+"\n", out.String())

	err = checkLLM(context.Background(), &out, &fakeCompleter{err: errors.New("connection refused")}, "m")
	assert.ErrorContains(t, err, "LLM health failed")
}

func TestRecommendCommandOutput(t *testing.T) {
	var out bytes.Buffer
	result := recommend.Recommend("next.js live demo", Catalog, 2, recommend.PersonaEngineer)

	require.NoError(t, printRecommendation(&out, result, false))
	assert.Contains(t, out.String(), "**Bgcdllc - General Contractor**")

	out.Reset()
	require.NoError(t, printRecommendation(&out, result, true))
	assert.Contains(t, out.String(), `"ranked": true`)
}
