package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/wmz5616/XIAORUI/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxRetries:     0,
	})
}

// chatServer 返回固定 content 的 OpenAI 兼容服务
func chatServer(content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, strconv.Quote(content))
	}))
}

func TestGenerateLearningPathParsesResponse(t *testing.T) {
	srv := chatServer(`{"logic_reasoning":"分式基础薄弱","recommended_steps":["复习分式","做练习"]}`)
	defer srv.Close()

	result := newTestAIService(srv.URL).GenerateLearningPath(StudentProfile{Name: "张三", Grade: 8}, []string{"分式"})

	assert.Equal(t, "分式基础薄弱", result.LogicReasoning)
	assert.Equal(t, []string{"复习分式", "做练习"}, result.RecommendedSteps)
}

func TestGenerateLearningPathStripsMarkdownFence(t *testing.T) {
	srv := chatServer("```json\n{\"logic_reasoning\":\"ok\",\"recommended_steps\":[\"step\"]}\n```")
	defer srv.Close()

	result := newTestAIService(srv.URL).GenerateLearningPath(StudentProfile{Name: "张三", Grade: 8}, nil)

	assert.Equal(t, "ok", result.LogicReasoning)
}

func TestGenerateLearningPathNonJSONResponse(t *testing.T) {
	srv := chatServer("根据你的情况我建议先复习基础")
	defer srv.Close()

	result := newTestAIService(srv.URL).GenerateLearningPath(StudentProfile{Name: "张三", Grade: 8}, nil)

	// 非标准 JSON 时原文进入诊断分析字段
	assert.Equal(t, "根据你的情况我建议先复习基础", result.LogicReasoning)
	require.NotEmpty(t, result.RecommendedSteps)
	assert.Equal(t, "AI 返回格式非标准，请查看诊断分析", result.RecommendedSteps[0])
}

func TestGenerateLearningPathServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := newTestAIService(srv.URL).GenerateLearningPath(StudentProfile{Name: "张三", Grade: 8}, nil)

	assert.Contains(t, result.LogicReasoning, "【系统提示】")
	assert.Len(t, result.RecommendedSteps, 4)
}

func TestChatRetriesOnFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"[\"标签\"]"}}]}`)
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{
		BaseURL:        srv.URL,
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxRetries:     1,
	})

	labels := svc.AnalyzeWeakness([]WrongAnswer{{Question: "q", CorrectAnswer: "a"}})

	assert.Equal(t, []string{"标签"}, labels)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateDiagnosticQuizFiltersInvalid(t *testing.T) {
	srv := chatServer(`[
		{"content":"有效题","options":["A","B"],"correct_index":1,"knowledge_point":"分式"},
		{"content":"下标越界","options":["A","B"],"correct_index":5,"knowledge_point":"分式"},
		{"content":"","options":["A","B"],"correct_index":0,"knowledge_point":"分式"}
	]`)
	defer srv.Close()

	questions := newTestAIService(srv.URL).GenerateDiagnosticQuiz(8, "数学")

	require.Len(t, questions, 1)
	assert.Equal(t, "有效题", questions[0].Content)
}

func TestGenerateDiagnosticQuizServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	questions := newTestAIService(srv.URL).GenerateDiagnosticQuiz(8, "数学")

	// 兜底单题，诊断流程不被阻塞
	require.Len(t, questions, 1)
	assert.Equal(t, "数学", questions[0].KnowledgePoint)
	assert.GreaterOrEqual(t, len(questions[0].Options), 2)
}

func TestAnalyzeWeaknessEmptyInput(t *testing.T) {
	// 空输入不发起网络请求
	svc := newTestAIService("http://127.0.0.1:1")

	labels := svc.AnalyzeWeakness(nil)

	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestAnalyzeWeaknessClampsToThree(t *testing.T) {
	srv := chatServer(`["a","b","c","d","e"]`)
	defer srv.Close()

	labels := newTestAIService(srv.URL).AnalyzeWeakness([]WrongAnswer{{Question: "q"}})

	assert.Len(t, labels, 3)
}

func TestAnalyzeWeaknessMalformedFallsBack(t *testing.T) {
	srv := chatServer("这不是一个 JSON 数组")
	defer srv.Close()

	labels := newTestAIService(srv.URL).AnalyzeWeakness([]WrongAnswer{{Question: "q"}})

	assert.Equal(t, []string{"基础概念理解", "解题方法运用"}, labels)
}

func TestStripMarkdownFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFence(`{"a":1}`))
}
