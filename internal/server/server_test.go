package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/db/dbtest"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/server/ratelimit"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizResponse = "```json\n" + `{"questions":[
  {"question":"Q1","options":["A","B (Correct)","C","D"],"explanation":"E1"},
  {"question":"Q2","options":["W (Correct)","X","Y","Z"],"explanation":"E2"}
]}` + "\n```"

const insightResponse = `{"salaryRanges":[{"role":"Analyst","min":1,"max":3,"median":2,"location":"US"}],
"growthRate":3,"demandLevel":"Medium","topSkills":["Excel"],"marketOutlook":"Neutral",
"keyTrends":["Automation"],"recommendedSkills":["Python"]}`

type testEnv struct {
	server *Server
	db     *db.DB
	llm    *llm.MockClient
	jwt    *JWTService
}

func newTestEnv(t *testing.T, limiter *ratelimit.Limiter) *testEnv {
	t.Helper()
	database := dbtest.New(t)
	mock := llm.NewMockClient()
	jwtService := NewJWTService(testAuthConfig())
	s := New(Config{Port: 0}, Deps{DB: database, LLM: mock, JWT: jwtService, Limiter: limiter})
	return &testEnv{server: s, db: database, llm: mock, jwt: jwtService}
}

func (e *testEnv) token(t *testing.T, clerkID string) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(types.Identity{ClerkUserID: clerkID, Name: "Test " + clerkID, Email: clerkID + "@example.com"})
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestGenerateQuiz(t *testing.T) {
	env := newTestEnv(t, nil)
	env.llm.AddResponse(llm.MockResponse{Text: quizResponse})

	w := env.do(t, http.MethodPost, "/api/generate-quiz", "", map[string]any{"industry": "Data Science", "skills": []string{"Python"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	quiz := decode[types.Quiz](t, w)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "B", quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, []string{"A", "B", "C", "D"}, quiz.Questions[0].Options)
	assert.Contains(t, env.llm.LastPrompt(), "for a Data Science role requiring Python.")
}

func TestGenerateQuiz_FallbackIndustry(t *testing.T) {
	for name, body := range map[string]string{
		"malformed body":  `{"industry":`,
		"invalid chars":   `{"industry":"C++ dev"}`,
		"empty body":      ``,
		"non-list skills": `{"skills":"Go"}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.llm.AddResponse(llm.MockResponse{Text: quizResponse})

			w := env.do(t, http.MethodPost, "/api/generate-quiz", "", body)
			require.Equal(t, http.StatusOK, w.Code)
			prompt := env.llm.LastPrompt()
			assert.Contains(t, prompt, "Google Software Development Engineer (SDE) role.")
			assert.NotContains(t, prompt, "requiring")
		})
	}
}

func TestGenerateQuiz_ModelFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.llm.AddResponse(llm.MockResponse{Err: errors.New("quota")})

	w := env.do(t, http.MethodPost, "/api/generate-quiz", "", map[string]any{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate quiz. Please try again.", decode[map[string]string](t, w)["error"])
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode[map[string]string](t, w)["error"])

	w = env.do(t, http.MethodGet, "/api/user", env.token(t, "user_new"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	prefs := decode[types.UserPreferences](t, w)
	assert.Equal(t, "Software Engineering", prefs.Industry)
	assert.Equal(t, []string{}, prefs.Skills)
}

func TestAssessmentFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := env.token(t, "user_flow")

	// provision
	w := env.do(t, http.MethodPost, "/api/users/sync", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	synced := decode[map[string]any](t, w)
	assert.Equal(t, "Not Specified", synced["industry"])

	// save with one wrong answer
	env.llm.AddResponse(llm.MockResponse{Text: "Review B-trees."})
	w = env.do(t, http.MethodPost, "/api/assessments", tok, map[string]any{
		"questions": []map[string]any{
			{"question": "Q1", "options": []string{"A", "B"}, "correctAnswer": "B", "explanation": "E"},
			{"question": "Q2", "options": []string{"C", "D"}, "correctAnswer": "C", "explanation": "E"},
		},
		"answers": []any{"A", "C"},
		"score":   50,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]bool](t, w)["success"])

	// list
	w = env.do(t, http.MethodGet, "/api/assessments", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Technical", list[0]["category"])
	assert.Equal(t, "Review B-trees.", list[0]["improvementTip"])
	questions := list[0]["questions"].([]any)
	require.Len(t, questions, 2)
	first := questions[0].(map[string]any)
	assert.Equal(t, false, first["isCorrect"])
	assert.Equal(t, "A", first["userAnswer"])
	assert.Equal(t, "B", first["answer"])

	// summary
	w = env.do(t, http.MethodGet, "/api/assessments/summary", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[types.AssessmentSummary](t, w)
	assert.Equal(t, 2, summary.TotalQuestions)
	assert.Equal(t, 50.0, summary.Accuracy)
	assert.Equal(t, 50.0, summary.AverageScore)
	assert.Len(t, summary.Points, 1)
}

func TestSaveAssessment_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	question := []map[string]any{{"question": "Q1", "options": []string{"A"}, "correctAnswer": "A"}}

	tests := []struct {
		name       string
		token      string
		body       any
		wantStatus int
		wantError  string
	}{
		{"unauthenticated", "", map[string]any{"questions": question, "answers": []any{"A"}}, http.StatusUnauthorized, "Unauthorized"},
		{"unequal lengths", env.token(t, "user_x"), map[string]any{"questions": question, "answers": []any{}}, http.StatusBadRequest, "Invalid input data"},
		{"questions not a list", env.token(t, "user_x"), `{"questions":"nope","answers":[]}`, http.StatusBadRequest, "Invalid input data"},
		{"unknown user", env.token(t, "user_x"), map[string]any{"questions": question, "answers": []any{nil}}, http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/assessments", tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decode[map[string]string](t, w)["error"])
		})
	}
	assert.Equal(t, 0, env.llm.CallCount())
}

func TestListAssessments_Anonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, tok := range []string{"", "invalid-token"} {
		w := env.do(t, http.MethodGet, "/api/assessments", tok, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	}
}

func TestProfileFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := env.token(t, "user_profile")

	w := env.do(t, http.MethodPut, "/api/user/profile", tok, map[string]any{"industry": "finance"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/users/sync", tok, nil).Code)

	w = env.do(t, http.MethodPut, "/api/user/profile", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.llm.AddResponse(llm.MockResponse{Text: insightResponse})
	w = env.do(t, http.MethodPut, "/api/user/profile", tok, map[string]any{
		"industry":   "finance",
		"experience": 3,
		"bio":        "Quant",
		"skills":     []string{"Python"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[map[string]map[string]any](t, w)
	assert.Equal(t, "finance", result["user"]["industry"])
	assert.Equal(t, "Medium", result["industryInsight"]["demandLevel"])

	w = env.do(t, http.MethodGet, "/api/user/onboarding", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["isOnboarded"])

	w = env.do(t, http.MethodGet, "/api/industry-insights", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finance", decode[map[string]any](t, w)["industry"])
	assert.Equal(t, 1, env.llm.CallCount())

	w = env.do(t, http.MethodGet, "/api/user", tok, nil)
	prefs := decode[types.UserPreferences](t, w)
	assert.Equal(t, "finance", prefs.Industry)
	assert.Equal(t, []string{"Python"}, prefs.Skills)
}

func TestProfileUpdate_ModelFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := env.token(t, "user_fail")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/users/sync", tok, nil).Code)

	env.llm.AddResponse(llm.MockResponse{Err: errors.New("model down")})
	w := env.do(t, http.MethodPut, "/api/user/profile", tok, map[string]any{"industry": "retail"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "Failed to update profile", body["error"])
	assert.NotContains(t, w.Body.String(), "model down")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/generate-quiz", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	env := newTestEnv(t, limiter)
	env.llm.AddResponse(llm.MockResponse{Text: quizResponse})

	w := env.do(t, http.MethodPost, "/api/generate-quiz", "", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = env.do(t, http.MethodPost, "/api/generate-quiz", "", map[string]any{})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 1, env.llm.CallCount())
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodOptions, "/api/assessments", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization"))
}

func TestStart_StopsOnCancel(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- env.server.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
