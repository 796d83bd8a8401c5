package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Placeholder explanation text applied when the worker omits the fields.
const (
	defaultExplanationCorrect = "The correct answer is highlighted above."
	defaultExplanationKey     = "Review this concept to strengthen your understanding."
)

// WorkerClient is the outbound port to the content worker.
type WorkerClient interface {
	Explore(ctx context.Context, query string, user domain.UserContext) (json.RawMessage, error)
	Playground(ctx context.Context, topic string, level int, user domain.UserContext) (json.RawMessage, error)
	Test(ctx context.Context, topic string, examType domain.ExamType) (json.RawMessage, error)
	StreamExplore(ctx context.Context, query string, user domain.UserContext, history []domain.ChatTurn) (json.RawMessage, error)
}

// ContentService defines the interface for content-generation operations
type ContentService interface {
	GetExploreContent(ctx context.Context, query string, user domain.UserContext) (*dto.ExploreResponse, error)
	GetPracticeQuestion(ctx context.Context, topic string, difficulty int, user domain.UserContext) (*dto.QuestionResponse, error)
	GetExamQuestions(ctx context.Context, topic string, examType string) (*dto.ExamQuestionsResponse, error)
	StreamExploreContent(ctx context.Context, query string, user domain.UserContext, history []domain.ChatTurn, onChunk domain.ChunkHandler) error
}

// contentService implements ContentService
type contentService struct {
	worker       WorkerClient
	exploreCache ExploreCacheService // may be nil when no cache is configured
	rng          *rand.Rand
	rngMu        sync.Mutex
	sf           singleflight.Group
}

// NewContentService creates a new instance of contentService. rng drives the
// option shuffle and may be seeded for deterministic behavior in tests.
func NewContentService(worker WorkerClient, exploreCache ExploreCacheService, rng *rand.Rand) ContentService {
	return &contentService{
		worker:       worker,
		exploreCache: exploreCache,
		rng:          rng,
	}
}

// operationError re-raises err under an operation-specific top-level message.
// The original error code and context (batch count, retry-after) survive;
// the detail stays in logs only.
func operationError(message string, err error) error {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		wrapped := domain.NewError(derr.Code, message, err)
		for k, v := range derr.Context {
			wrapped.WithContext(k, v)
		}
		return wrapped
	}
	return domain.NewInternalError(message, err)
}

// --- Explore ---

type rawExploreContent struct {
	Paragraph1 *string `json:"paragraph1"`
	Paragraph2 *string `json:"paragraph2"`
	Paragraph3 *string `json:"paragraph3"`
}

type rawExplore struct {
	Domain           *string            `json:"domain"`
	Content          *rawExploreContent `json:"content"`
	RelatedTopics    json.RawMessage    `json:"relatedTopics"`
	RelatedQuestions json.RawMessage    `json:"relatedQuestions"`
}

// GetExploreContent implements ContentService
func (s *contentService) GetExploreContent(ctx context.Context, query string, user domain.UserContext) (*dto.ExploreResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewInvalidInputError("query is required")
	}

	key := exploreCacheKey(query, user.AgeGroup())

	// Concurrent identical queries share one fetch.
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if s.exploreCache != nil {
			cached, cacheErr := s.exploreCache.GetExploreFromCache(ctx, key)
			if cacheErr != nil {
				logger.Get().Error("ContentService: error reading explore cache",
					zap.Error(cacheErr), zap.String("cache_key", key))
			} else if cached != nil {
				logger.Get().Info("ContentService: explore cache hit", zap.String("cache_key", key))
				return cached, nil
			}
		}

		raw, fetchErr := s.worker.Explore(ctx, query, user)
		if fetchErr != nil {
			return nil, fetchErr
		}

		resp, parseErr := parseExploreResponse(raw)
		if parseErr != nil {
			return nil, parseErr
		}

		if s.exploreCache != nil {
			if putErr := s.exploreCache.PutExploreToCache(ctx, key, resp); putErr != nil {
				logger.Get().Error("ContentService: error writing explore cache",
					zap.Error(putErr), zap.String("cache_key", key))
			}
		}
		return resp, nil
	})
	if err != nil {
		logger.Get().Error("Failed to generate explore content",
			zap.Error(err), zap.String("query", query))
		return nil, operationError("Failed to generate explore content", err)
	}

	return result.(*dto.ExploreResponse), nil
}

func parseExploreResponse(raw json.RawMessage) (*dto.ExploreResponse, error) {
	var payload rawExplore
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domain.NewMalformedJSONError(err)
	}

	if payload.Domain == nil {
		return nil, domain.NewInvalidResponseShapeError("domain")
	}
	if payload.Content == nil {
		return nil, domain.NewInvalidResponseShapeError("content")
	}
	if payload.Content.Paragraph1 == nil {
		return nil, domain.NewInvalidResponseShapeError("content.paragraph1")
	}
	if payload.Content.Paragraph2 == nil {
		return nil, domain.NewInvalidResponseShapeError("content.paragraph2")
	}
	if payload.Content.Paragraph3 == nil {
		return nil, domain.NewInvalidResponseShapeError("content.paragraph3")
	}

	content := strings.Join([]string{
		*payload.Content.Paragraph1,
		*payload.Content.Paragraph2,
		*payload.Content.Paragraph3,
	}, "\n\n")

	return &dto.ExploreResponse{
		Content:          content,
		RelatedTopics:    truncateRelated(payload.RelatedTopics),
		RelatedQuestions: truncateRelated(payload.RelatedQuestions),
	}, nil
}

// truncateRelated reads an optional array of strings or objects, capped at
// MaxRelatedItems. Absent or non-array values default to an empty list.
func truncateRelated(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return []json.RawMessage{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []json.RawMessage{}
	}
	if len(items) > domain.MaxRelatedItems {
		items = items[:domain.MaxRelatedItems]
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items
}

// --- Questions ---

type rawExplanation struct {
	Correct  string `json:"correct"`
	KeyPoint string `json:"key_point"`
}

type rawQuestion struct {
	Text          string         `json:"text"`
	Options       []string       `json:"options"`
	CorrectAnswer interface{}    `json:"correctAnswer"`
	Explanation   rawExplanation `json:"explanation"`
	Difficulty    int            `json:"difficulty"`
	Topic         string         `json:"topic"`
	Subtopic      string         `json:"subtopic"`
}

// answerIndex coerces a loosely-typed correctAnswer value, defaulting to 0.
func answerIndex(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func explanationOrDefault(raw rawExplanation) domain.Explanation {
	exp := domain.Explanation{Correct: raw.Correct, KeyPoint: raw.KeyPoint}
	if strings.TrimSpace(exp.Correct) == "" {
		exp.Correct = defaultExplanationCorrect
	}
	if strings.TrimSpace(exp.KeyPoint) == "" {
		exp.KeyPoint = defaultExplanationKey
	}
	return exp
}

// GetPracticeQuestion implements ContentService
func (s *contentService) GetPracticeQuestion(ctx context.Context, topic string, difficulty int, user domain.UserContext) (*dto.QuestionResponse, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, domain.NewInvalidInputError("topic is required")
	}

	raw, err := s.worker.Playground(ctx, topic, difficulty, user)
	if err != nil {
		logger.Get().Error("Failed to generate practice question",
			zap.Error(err), zap.String("topic", topic), zap.Int("difficulty", difficulty))
		return nil, operationError("Failed to generate practice question", err)
	}

	var payload rawQuestion
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Get().Error("Failed to generate practice question",
			zap.Error(err), zap.String("topic", topic))
		return nil, operationError("Failed to generate practice question",
			domain.NewInvalidResponseShapeError("question"))
	}

	question := &domain.Question{
		Text:          payload.Text,
		Options:       payload.Options,
		CorrectAnswer: answerIndex(payload.CorrectAnswer),
		Explanation:   explanationOrDefault(payload.Explanation),
		Difficulty:    difficulty,
		Topic:         topic,
		Subtopic:      payload.Subtopic,
		QuestionType:  domain.QuestionTypeMultipleChoice,
		AgeGroup:      user.AgeGroup(),
	}
	if payload.Topic != "" {
		question.Topic = payload.Topic
	}
	if payload.Difficulty > 0 {
		question.Difficulty = payload.Difficulty
	}

	shuffled := s.shuffle(question)
	if err := shuffled.Validate(); err != nil {
		logger.Get().Error("Failed to generate practice question",
			zap.Error(err), zap.String("topic", topic))
		return nil, operationError("Failed to generate practice question", err)
	}

	return questionToDTO(shuffled), nil
}

func (s *contentService) shuffle(q *domain.Question) *domain.Question {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return q.ShuffleOptions(s.rng)
}

// GetExamQuestions implements ContentService
func (s *contentService) GetExamQuestions(ctx context.Context, topic string, examType string) (*dto.ExamQuestionsResponse, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, domain.NewInvalidInputError("topic is required")
	}
	exam := domain.ExamType(strings.ToUpper(examType))
	if !exam.IsValid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported exam type: %s", examType))
	}

	raw, err := s.worker.Test(ctx, topic, exam)
	if err != nil {
		logger.Get().Error("Failed to generate exam questions",
			zap.Error(err), zap.String("topic", topic), zap.String("exam_type", string(exam)))
		return nil, operationError("Failed to generate exam questions", err)
	}

	var payload struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, operationError("Failed to generate exam questions", domain.NewMalformedJSONError(err))
	}
	if payload.Questions == nil {
		return nil, operationError("Failed to generate exam questions",
			domain.NewInvalidResponseShapeError("questions"))
	}

	valid := make([]*domain.Question, 0, len(payload.Questions))
	for i, item := range payload.Questions {
		question := mapExamQuestion(item, topic, exam, i)
		if question == nil || !question.IsValidFormat() {
			logger.Get().Debug("ContentService: dropping invalid exam question",
				zap.Int("index", i), zap.String("topic", topic))
			continue
		}
		valid = append(valid, question)
	}

	if len(valid) < domain.MinExamQuestions {
		err := domain.NewInsufficientValidQuestionsError(len(valid))
		logger.Get().Error("Failed to generate exam questions",
			zap.Error(err), zap.String("topic", topic), zap.Int("valid_count", len(valid)))
		return nil, operationError("Failed to generate exam questions", err)
	}
	if len(valid) > domain.MaxExamQuestions {
		valid = valid[:domain.MaxExamQuestions]
	}

	questions := make([]dto.QuestionResponse, 0, len(valid))
	for _, q := range valid {
		questions = append(questions, *questionToDTO(q))
	}

	return &dto.ExamQuestionsResponse{
		Questions: questions,
		Count:     len(questions),
	}, nil
}

// mapExamQuestion maps one raw batch item into a Question with batch
// defaults: difficulty steps up every 5 items, subtopic is synthesized when
// absent, age group is fixed for the exam track.
func mapExamQuestion(item json.RawMessage, topic string, exam domain.ExamType, index int) *domain.Question {
	var payload rawQuestion
	if err := json.Unmarshal(item, &payload); err != nil {
		return nil
	}

	options := payload.Options
	if options == nil {
		options = []string{}
	}
	subtopic := payload.Subtopic
	if subtopic == "" {
		subtopic = fmt.Sprintf("%s Concept %d", topic, index+1)
	}

	return &domain.Question{
		Text:          payload.Text,
		Options:       options,
		CorrectAnswer: answerIndex(payload.CorrectAnswer),
		Explanation:   explanationOrDefault(payload.Explanation),
		Difficulty:    index/5 + 1,
		Topic:         topic,
		Subtopic:      subtopic,
		ExamType:      exam,
		QuestionType:  domain.QuestionTypeMultipleChoice,
		AgeGroup:      "16-18",
	}
}

func questionToDTO(q *domain.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		Text:          q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation: dto.ExplanationResponse{
			Correct:  q.Explanation.Correct,
			KeyPoint: q.Explanation.KeyPoint,
		},
		Difficulty:   q.Difficulty,
		Topic:        q.Topic,
		Subtopic:     q.Subtopic,
		ExamType:     string(q.ExamType),
		QuestionType: q.QuestionType,
		AgeGroup:     q.AgeGroup,
	}
}

// --- Streaming explore ---

type rawStreamEnvelope struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type rawStreamMeta struct {
	Topics []struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Detail string `json:"detail"`
	} `json:"topics"`
	Questions []struct {
		Text   string `json:"text"`
		Type   string `json:"type"`
		Detail string `json:"detail"`
	} `json:"questions"`
}

// StreamExploreContent implements ContentService. The worker returns a single
// provider envelope rather than a true stream; the callback fires exactly
// once. When the envelope lacks the expected candidates shape the callback is
// never invoked and the call completes without error.
func (s *contentService) StreamExploreContent(ctx context.Context, query string, user domain.UserContext, history []domain.ChatTurn, onChunk domain.ChunkHandler) error {
	if strings.TrimSpace(query) == "" {
		return domain.NewInvalidInputError("query is required")
	}

	raw, err := s.worker.StreamExplore(ctx, query, user, history)
	if err != nil {
		logger.Get().Error("Failed to stream explore content",
			zap.Error(err), zap.String("query", query))
		return operationError("Failed to stream explore content", err)
	}

	chunk, ok := parseStreamChunk(raw)
	if !ok {
		logger.Get().Debug("ContentService: stream envelope missing candidates, skipping callback",
			zap.String("query", query))
		return nil
	}

	if onChunk != nil {
		onChunk(*chunk)
	}
	return nil
}

func parseStreamChunk(raw json.RawMessage) (*domain.ChatChunk, bool) {
	var envelope rawStreamEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, false
	}

	text := envelope.Candidates[0].Content.Parts[0].Text
	prose, meta, _ := strings.Cut(text, "---")

	chunk := &domain.ChatChunk{Text: strings.TrimSpace(prose)}

	if trimmed := strings.TrimSpace(meta); trimmed != "" {
		var parsed rawStreamMeta
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			for _, t := range parsed.Topics {
				chunk.Topics = append(chunk.Topics, domain.RelatedTopic{
					Topic:  t.Name,
					Type:   t.Type,
					Reason: t.Detail,
				})
			}
			for _, q := range parsed.Questions {
				chunk.Questions = append(chunk.Questions, domain.RelatedQuestion{
					Question: q.Text,
					Type:     q.Type,
					Context:  q.Detail,
				})
			}
		}
	}

	return chunk, true
}
