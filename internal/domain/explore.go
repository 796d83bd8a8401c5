package domain

// MaxRelatedItems caps the related topic/question lists on explore results.
const MaxRelatedItems = 5

// ChatTurn is one prior turn of an explore conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RelatedTopic is a follow-up topic suggestion extracted from a chat chunk.
type RelatedTopic struct {
	Topic  string `json:"topic"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// RelatedQuestion is a follow-up question suggestion extracted from a chat chunk.
type RelatedQuestion struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Context  string `json:"context"`
}

// ChatChunk is the payload handed to the streaming-explore callback.
// Topics and Questions are nil when the worker sent none.
type ChatChunk struct {
	Text      string            `json:"text"`
	Topics    []RelatedTopic    `json:"topics,omitempty"`
	Questions []RelatedQuestion `json:"questions,omitempty"`
}

// ChunkHandler receives partial content from a streaming explore fetch.
type ChunkHandler func(chunk ChatChunk)
