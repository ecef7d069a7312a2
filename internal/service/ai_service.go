package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wmz5616/XIAORUI/internal/config"
	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/pkg/logger"
	"github.com/wmz5616/XIAORUI/pkg/monitoring"

	"go.uber.org/zap"
)

// AIService 封装外部推理服务（OpenAI 兼容的 chat/completions 协议）。
// 约定：任何网络错误、超时或格式不合法都在这里降级为固定兜底数据，
// 不向上层业务抛错，学生侧流程永远可以继续。
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 热更新连接参数，支持配置文件重载
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	s.mu.Lock()
	s.config = cfg
	s.client = &http.Client{Timeout: timeout}
	s.mu.Unlock()
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StudentProfile 生成学习路径所需的学生画像
type StudentProfile struct {
	Name  string `json:"name"`
	Grade int    `json:"grade"`
}

type LearningPathResult struct {
	LogicReasoning   string   `json:"logic_reasoning"`
	RecommendedSteps []string `json:"recommended_steps"`
}

// WrongAnswer 薄弱点分析的输入：一道答错的题
type WrongAnswer struct {
	Question       string `json:"question"`
	StudentAnswer  string `json:"student_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	KnowledgePoint string `json:"knowledge_point"`
}

// chat 发起一次对话请求。按配置重试（短退避），全部失败才返回错误。
func (s *AIService) chat(system, prompt string) (string, error) {
	cfg, client := s.snapshot()

	reqBody := ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var lastErr error
	attempts := cfg.MaxRetries + 1
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(cfg.RetryBackoff)
		}

		content, err := doChatRequest(cfg, client, jsonData)
		if err == nil {
			return content, nil
		}
		lastErr = err
		logger.Log.Warn("AI request failed",
			zap.Int("attempt", i+1),
			zap.Error(err))
	}

	return "", lastErr
}

func doChatRequest(cfg config.AIConfig, client *http.Client, jsonData []byte) (string, error) {
	req, err := http.NewRequest("POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// stripMarkdownFence 去掉模型偶尔包上的 ```json 标记
func stripMarkdownFence(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// GenerateLearningPath 生成个性化学习路径。失败时返回离线建议。
func (s *AIService) GenerateLearningPath(profile StudentProfile, weakPoints []string) LearningPathResult {
	prompt := fmt.Sprintf(`你是一位资深的教育专家系统。
学生信息：姓名 %s，%d年级。
薄弱点：%s。

请根据"最近发展区"理论，生成个性化学习路径。
【重要】必须严格返回纯 JSON 格式，不要包含 Markdown 标记（如 %s）。
返回格式如下：
{
    "logic_reasoning": "简短的诊断分析（50字以内）",
    "recommended_steps": ["第一步行动", "第二步行动", "第三步行动", "第四步行动"]
}`, profile.Name, profile.Grade, strings.Join(weakPoints, ", "), "```json")

	content, err := s.chat("你是一个只输出 JSON 的教育专家助手。", prompt)
	if err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("learning_path").Inc()
		logger.Log.Error("learning path generation fell back", zap.Error(err))
		return learningPathFallback()
	}

	var result LearningPathResult
	if err := json.Unmarshal([]byte(stripMarkdownFence(content)), &result); err != nil {
		// 非标准 JSON：把原文裁剪后当诊断分析返回
		preview := content
		if len([]rune(preview)) > 100 {
			preview = string([]rune(preview)[:100]) + "..."
		}
		return LearningPathResult{
			LogicReasoning:   preview,
			RecommendedSteps: []string{"AI 返回格式非标准，请查看诊断分析"},
		}
	}

	return result
}

func learningPathFallback() LearningPathResult {
	return LearningPathResult{
		LogicReasoning:   "【系统提示】AI 服务暂不可用，显示离线建议。",
		RecommendedSteps: []string{"回顾最近一次测验的错题", "重新学习薄弱知识点的课程资料", "完成一组基础巩固练习", "请求老师或同学讲解"},
	}
}

// GenerateDiagnosticQuiz 生成 N 道诊断题。失败或格式非法时
// 返回单道固定兜底题，保证诊断流程不被阻塞。
func (s *AIService) GenerateDiagnosticQuiz(grade int, subject string) []model.DiagnosticQuestion {
	prompt := fmt.Sprintf(`为%d年级学生出 5 道「%s」的诊断选择题，用于定位薄弱知识点。
【重要】严格返回纯 JSON 数组，不要包含任何其他文字或 Markdown 标记。
每个元素格式：
{"content": "题干", "options": ["A选项", "B选项", "C选项", "D选项"], "correct_index": 0, "knowledge_point": "考察的知识点"}`,
		grade, subject)

	content, err := s.chat("你是一个只输出 JSON 的出题助手。", prompt)
	if err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("diagnostic_quiz").Inc()
		logger.Log.Error("diagnostic quiz generation fell back", zap.Error(err))
		return diagnosticQuizFallback(subject)
	}

	var questions []model.DiagnosticQuestion
	if err := json.Unmarshal([]byte(stripMarkdownFence(content)), &questions); err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("diagnostic_quiz").Inc()
		logger.Log.Warn("diagnostic quiz response not parsable", zap.Error(err))
		return diagnosticQuizFallback(subject)
	}

	valid := questions[:0]
	for _, q := range questions {
		if q.Content == "" || len(q.Options) < 2 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		monitoring.AIFallbackCounter.WithLabelValues("diagnostic_quiz").Inc()
		return diagnosticQuizFallback(subject)
	}

	return valid
}

func diagnosticQuizFallback(subject string) []model.DiagnosticQuestion {
	return []model.DiagnosticQuestion{
		{
			Content:        fmt.Sprintf("你对「%s」中最近学过的内容掌握程度如何？", subject),
			Options:        []string{"完全掌握", "基本掌握", "有些吃力", "完全不会"},
			CorrectIndex:   0,
			KnowledgePoint: subject,
		},
	}
}

// AnalyzeWeakness 从错题中提取 1-3 个薄弱点标签。
// 输入为空直接返回空集；调用失败返回固定通用标签。
func (s *AIService) AnalyzeWeakness(wrongAnswers []WrongAnswer) []string {
	if len(wrongAnswers) == 0 {
		return []string{}
	}

	detail, _ := json.Marshal(wrongAnswers)
	prompt := fmt.Sprintf(`以下是一名学生的错题记录（JSON）：
%s

请归纳出学生的薄弱知识点，输出 1 到 3 个简短标签。
【重要】严格返回纯 JSON 字符串数组，如 ["分式运算", "因式分解"]，不要包含其他文字。`, string(detail))

	content, err := s.chat("你是一个只输出 JSON 的学情分析助手。", prompt)
	if err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("analyze_weakness").Inc()
		logger.Log.Error("weakness analysis fell back", zap.Error(err))
		return weaknessFallback()
	}

	var labels []string
	if err := json.Unmarshal([]byte(stripMarkdownFence(content)), &labels); err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("analyze_weakness").Inc()
		logger.Log.Warn("weakness analysis response not parsable", zap.Error(err))
		return weaknessFallback()
	}

	cleaned := make([]string, 0, 3)
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		cleaned = append(cleaned, l)
		if len(cleaned) == 3 {
			break
		}
	}
	if len(cleaned) == 0 {
		return weaknessFallback()
	}

	return cleaned
}

func weaknessFallback() []string {
	return []string{"基础概念理解", "解题方法运用"}
}
