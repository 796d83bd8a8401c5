package dto

import "encoding/json"

// ExploreRequest represents an exploratory content request
// @Description Request body for fetching explore content
type ExploreRequest struct {
	Query       string                 `json:"query"`
	UserContext map[string]interface{} `json:"user_context"`
}

// ExploreResponse represents exploratory content in the API response
// @Description Explore content with related suggestions
type ExploreResponse struct {
	Content          string            `json:"content"`
	RelatedTopics    []json.RawMessage `json:"related_topics"`
	RelatedQuestions []json.RawMessage `json:"related_questions"`
}

// PracticeRequest represents a practice question request
type PracticeRequest struct {
	Topic       string                 `json:"topic"`
	Difficulty  int                    `json:"difficulty"`
	UserContext map[string]interface{} `json:"user_context"`
}

// ExplanationResponse is the two-part explanation of a question
type ExplanationResponse struct {
	Correct  string `json:"correct"`
	KeyPoint string `json:"key_point"`
}

// QuestionResponse represents a multiple-choice question in the API response
// @Description Validated multiple-choice question
type QuestionResponse struct {
	Text          string              `json:"text"`
	Options       []string            `json:"options"`
	CorrectAnswer int                 `json:"correct_answer"`
	Explanation   ExplanationResponse `json:"explanation"`
	Difficulty    int                 `json:"difficulty"`
	Topic         string              `json:"topic"`
	Subtopic      string              `json:"subtopic"`
	ExamType      string              `json:"exam_type,omitempty"`
	QuestionType  string              `json:"question_type"`
	AgeGroup      string              `json:"age_group"`
}

// ExamRequest represents a batch exam questions request
type ExamRequest struct {
	Topic    string `json:"topic"`
	ExamType string `json:"exam_type"`
}

// ExamQuestionsResponse represents a batch of exam questions
type ExamQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Count     int                `json:"count"`
}

// ChatTurn is one prior turn of an explore conversation
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a streaming explore request
type ChatRequest struct {
	Query       string                 `json:"query"`
	UserContext map[string]interface{} `json:"user_context"`
	History     []ChatTurn             `json:"history"`
}

// RelatedTopicResponse is a follow-up topic suggestion
type RelatedTopicResponse struct {
	Topic  string `json:"topic"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// RelatedQuestionResponse is a follow-up question suggestion
type RelatedQuestionResponse struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Context  string `json:"context"`
}

// ChatChunkResponse represents one chunk of a streamed explore conversation
type ChatChunkResponse struct {
	Text      string                    `json:"text"`
	Topics    []RelatedTopicResponse    `json:"topics,omitempty"`
	Questions []RelatedQuestionResponse `json:"questions,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
