package service

import (
	"context"
	"errors"
	"fmt"
	"lxp_backend/internal/config"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"lxp_backend/pkg/logger"
	"lxp_backend/pkg/monitoring"
	"lxp_backend/pkg/tracing"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	variantChat     = "chat"
	variantGoals    = "goals"
	variantFeedback = "feedback"

	outcomeOK         = "ok"
	outcomeRefusal    = "refusal"
	outcomeInvalid    = "invalid"
	outcomeEmptyQuery = "empty_query"
)

const (
	defaultPersona = "You are an AI Learning Mentor helping students with their studies. " +
		"You should be encouraging, patient, and provide clear explanations tailored to the student's level. " +
		"Keep responses concise (2-3 paragraphs) and actionable. "
	goalSystemPrompt = "You are an expert educational curriculum designer creating personalized learning goals."

	MsgEmptyQuery        = "I didn't receive a question. What would you like to know?"
	MsgRefusalRedirect   = "I'd be happy to help with your studies! Could you rephrase your question or ask about a specific topic you're learning?"
	MsgFallbackTimeout   = "I'm taking a bit longer to think. Could you try asking your question again?"
	MsgFallbackAuth      = "I'm having trouble connecting to my knowledge base. Please let your teacher know."
	MsgFallbackRateLimit = "I'm getting too many questions right now. Please wait a moment and try again."
	MsgFallbackGeneric   = "I encountered an issue, but I'm here to help! Could you try rephrasing your question?"
)

var refusalPhrases = []string{"i cannot", "i'm unable to", "against my programming"}

const (
	chatTemperature     = 0.7
	goalTemperature     = 0.8
	feedbackTemperature = 0.7

	minGoals      = 3
	maxGoals      = 5
	minGoalLength = 10
)

// MentorService AI 导师：组装上下文、调用大模型、失败时降级为固定文案
type MentorService struct {
	LLM         LLMClient
	SessionRepo *repository.MentorSessionRepository
	StudentRepo *repository.StudentRepository
	PathRepo    *repository.LearningPathRepository
	ContentRepo *repository.ContentRepository
	Context     *ContextBuilder

	mu  sync.RWMutex
	cfg config.AIConfig
}

func NewMentorService(
	llm LLMClient,
	cfg config.AIConfig,
	sessionRepo *repository.MentorSessionRepository,
	studentRepo *repository.StudentRepository,
	pathRepo *repository.LearningPathRepository,
	contentRepo *repository.ContentRepository,
	contextBuilder *ContextBuilder,
) *MentorService {
	return &MentorService{
		LLM:         llm,
		SessionRepo: sessionRepo,
		StudentRepo: studentRepo,
		PathRepo:    pathRepo,
		ContentRepo: contentRepo,
		Context:     contextBuilder,
		cfg:         cfg,
	}
}

func (s *MentorService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *MentorService) config() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

type ChatRequest struct {
	StudentID      uint   `json:"studentId" binding:"required"`
	LearningPathID *uint  `json:"learningPathId"`
	ContentID      *uint  `json:"contentId"`
	SessionType    string `json:"sessionType"`
	Query          string `json:"query"`
}

// Chat 与导师对话。空问题直接返回提示语，不调用模型也不记录会话
func (s *MentorService) Chat(ctx context.Context, req ChatRequest) (*model.AIMentorSession, error) {
	if req.SessionType == "" {
		req.SessionType = model.SessionGuidance
	}
	if !model.IsValidSessionType(req.SessionType) {
		return nil, fmt.Errorf("%w: unknown session type %q", util.ErrValidation, req.SessionType)
	}

	student, err := s.StudentRepo.FindByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	var path *model.LearningPath
	if req.LearningPathID != nil {
		path, err = s.PathRepo.FindByID(*req.LearningPathID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrLearningPathNotFound
			}
			return nil, err
		}
		if path.StudentID != student.ID {
			return nil, fmt.Errorf("%w: learning path %d does not belong to student %d", util.ErrValidation, path.ID, student.ID)
		}
	}

	var content *model.Content
	if req.ContentID != nil {
		content, err = s.ContentRepo.FindByID(*req.ContentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrContentNotFound
			}
			return nil, err
		}
	}

	if strings.TrimSpace(req.Query) == "" {
		monitoring.MentorResponses.WithLabelValues(variantChat, outcomeEmptyQuery).Inc()
		return &model.AIMentorSession{
			StudentID:      student.ID,
			LearningPathID: req.LearningPathID,
			SessionType:    req.SessionType,
			Query:          req.Query,
			Response:       MsgEmptyQuery,
			Outcome:        outcomeEmptyQuery,
		}, nil
	}

	mc, err := s.Context.Build(student, path, content)
	if err != nil {
		return nil, err
	}

	cfg := s.config()
	text, outcome := s.ask(ctx, variantChat, CompletionRequest{
		System:      BuildSystemPrompt(cfg.Persona, mc),
		User:        req.Query,
		Temperature: chatTemperature,
		MaxTokens:   cfg.ChatMaxTokens,
		Timeout:     cfg.ChatTimeout(),
	})
	switch outcome {
	case outcomeOK:
	case outcomeRefusal:
		text = MsgRefusalRedirect
	default:
		text = chatFallback(outcome)
	}

	session := &model.AIMentorSession{
		StudentID:      student.ID,
		LearningPathID: req.LearningPathID,
		SessionType:    req.SessionType,
		Query:          req.Query,
		Response:       text,
		Outcome:        outcome,
		ContextData:    datatypes.NewJSONType(mc),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// BuildSystemPrompt 人设 -> 学生信息 -> 学习上下文
func BuildSystemPrompt(persona string, mc model.MentorContext) string {
	if strings.TrimSpace(persona) == "" {
		persona = defaultPersona
	}
	var b strings.Builder
	b.WriteString(persona)
	if mc.StudentName != "" {
		fmt.Fprintf(&b, "Address the student as %s. ", mc.StudentName)
	}
	if mc.StudentGrade > 0 {
		fmt.Fprintf(&b, "The student is in grade %d. ", mc.StudentGrade)
	}
	if mc.Subject != "" {
		fmt.Fprintf(&b, "They are currently studying %s. ", mc.Subject)
	}
	if mc.Difficulty != "" {
		fmt.Fprintf(&b, "The difficulty level is %s. ", mc.Difficulty)
	}
	if lc := LearningContext(mc); lc != "" {
		b.WriteString("\n\nCurrent learning context: ")
		b.WriteString(lc)
	}
	return b.String()
}

// ask 调用模型并校验返回内容；outcome 为 ok 时 text 可直接使用
func (s *MentorService) ask(ctx context.Context, variant string, req CompletionRequest) (string, string) {
	ctx, span := tracing.StartSpan(ctx, "llm."+variant, attribute.String("llm.variant", variant))
	start := time.Now()
	raw, err := s.LLM.Complete(ctx, req)
	monitoring.LLMRequestDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	tracing.EndSpan(span, err)

	outcome := outcomeOK
	text := strings.TrimSpace(raw)
	switch {
	case err != nil:
		outcome = string(ErrorKind(err))
		logger.Log.Warn("LLM request failed",
			zap.String("variant", variant),
			zap.String("kind", outcome),
			zap.Error(err))
	case text == "":
		outcome = outcomeInvalid
		logger.Log.Warn("LLM returned empty response", zap.String("variant", variant))
	case isRefusal(text):
		outcome = outcomeRefusal
		logger.Log.Info("LLM refused to answer", zap.String("variant", variant), zap.String("response", text))
	}
	monitoring.MentorResponses.WithLabelValues(variant, outcome).Inc()
	return text, outcome
}

func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func chatFallback(outcome string) string {
	switch AIErrorKind(outcome) {
	case AIErrorTimeout:
		return MsgFallbackTimeout
	case AIErrorAuth:
		return MsgFallbackAuth
	case AIErrorRateLimit:
		return MsgFallbackRateLimit
	}
	return MsgFallbackGeneric
}

// GenerateGoals 生成 3-5 条个性化学习目标，任何失败都返回固定的 4 条目标
func (s *MentorService) GenerateGoals(ctx context.Context, grade int, subject, difficulty string) []string {
	if strings.TrimSpace(subject) == "" || grade < 1 {
		monitoring.MentorResponses.WithLabelValues(variantGoals, outcomeInvalid).Inc()
		return FallbackGoals(subject, difficulty)
	}

	prompt := fmt.Sprintf(`Generate exactly 4 specific, measurable, and achievable learning goals for a grade %d student
studying %s at a %s level. Each goal should be:
- One clear sentence
- Grade-appropriate
- Focused on mastery and understanding
- Actionable for the student

Format: Return ONLY a bulleted list with exactly 4 goals, each starting with a dash (-).`, grade, subject, difficulty)

	cfg := s.config()
	text, outcome := s.ask(ctx, variantGoals, CompletionRequest{
		System:      goalSystemPrompt,
		User:        prompt,
		Temperature: goalTemperature,
		MaxTokens:   cfg.GoalMaxTokens,
		Timeout:     cfg.GoalTimeout(),
	})
	if outcome != outcomeOK {
		return FallbackGoals(subject, difficulty)
	}

	goals := ParseGoals(text)
	if len(goals) < minGoals {
		logger.Log.Warn("LLM returned insufficient goals", zap.Int("count", len(goals)), zap.Strings("goals", goals))
		return FallbackGoals(subject, difficulty)
	}
	if len(goals) > maxGoals {
		goals = goals[:maxGoals]
	}
	return goals
}

// ParseGoals 提取列表项（-、*、•、1.），去掉标记后丢弃过短的条目
func ParseGoals(text string) []string {
	goals := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !isListItem(line) {
			continue
		}
		goal := strings.TrimSpace(strings.TrimLeft(line, "-*•0123456789. "))
		if utf8.RuneCountInString(goal) >= minGoalLength {
			goals = append(goals, goal)
		}
	}
	return goals
}

func isListItem(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(line)
	head := line
	if len(head) > 3 {
		head = head[:3]
	}
	return unicode.IsDigit(first) && strings.Contains(head, ".")
}

func FallbackGoals(subject, difficulty string) []string {
	name := subject
	if strings.TrimSpace(name) == "" {
		name = "the subject"
	}
	return []string{
		fmt.Sprintf("Understand and master core concepts in %s", name),
		fmt.Sprintf("Complete all assigned content at %s level with 80%%+ accuracy", difficulty),
		fmt.Sprintf("Apply %s knowledge to solve real-world problems", name),
		"Demonstrate mastery through assessments and projects",
	}
}

// GenerateFeedback 测验反馈，失败时按分数段返回固定文案
func (s *MentorService) GenerateFeedback(ctx context.Context, score float64, subject string, missed []string) string {
	prompt := fmt.Sprintf("A student scored %.1f%% on a %s assessment. ", score, subject)
	if len(missed) > 0 {
		prompt += fmt.Sprintf("They struggled with: %s. ", strings.Join(missed, ", "))
	}
	prompt += "Provide encouraging, specific feedback (2-3 sentences) on how to improve."

	cfg := s.config()
	text, outcome := s.ask(ctx, variantFeedback, CompletionRequest{
		User:        prompt,
		Temperature: feedbackTemperature,
		MaxTokens:   cfg.FeedbackMaxTokens,
		Timeout:     cfg.FeedbackTimeout(),
	})
	if outcome != outcomeOK {
		return FallbackFeedback(score)
	}
	return text
}

func FallbackFeedback(score float64) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("Great job! You scored %.1f%% which shows strong understanding. Keep up the excellent work!", score)
	case score >= 60:
		return fmt.Sprintf("You scored %.1f%%. You're on the right track! Review the areas you found challenging and try some practice problems.", score)
	}
	return fmt.Sprintf("You scored %.1f%%. Don't worry - learning takes time! Let's focus on understanding the fundamentals. I'm here to help if you have questions.", score)
}

func (s *MentorService) ListSessions(studentID uint, page, limit int) ([]model.AIMentorSession, int64, error) {
	return s.SessionRepo.ListByStudent(studentID, page, limit)
}

type RateSessionRequest struct {
	Helpful *bool `json:"helpful"`
	Rating  *int  `json:"rating"`
}

// RateSession 事后评价，只修改 helpful/rating
func (s *MentorService) RateSession(id uint, req RateSessionRequest) (*model.AIMentorSession, error) {
	if req.Helpful == nil && req.Rating == nil {
		return nil, fmt.Errorf("%w: helpful or rating is required", util.ErrValidation)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", util.ErrValidation)
	}
	if _, err := s.SessionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if err := s.SessionRepo.UpdateFeedback(id, req.Helpful, req.Rating); err != nil {
		return nil, err
	}
	return s.SessionRepo.FindByID(id)
}
