package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

type messageContent struct {
	Content string `json:"content"`
}

type choice struct {
	Message messageContent `json:"message"`
}

// ExtractContent pulls the reply text out of a completion response body. Shapes
// are tried in order: a proxy's {content}, Ollama's {message:{content}}, and
// OpenAI's {choices:[{message:{content}}]}. Each field is decoded on its own, so
// a sibling with an unexpected type does not hide a usable shape.
func ExtractContent(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	var content string
	if json.Unmarshal(fields["content"], &content) == nil && strings.TrimSpace(content) != "" {
		return content, nil
	}

	var message messageContent
	if json.Unmarshal(fields["message"], &message) == nil && strings.TrimSpace(message.Content) != "" {
		return message.Content, nil
	}

	var choices []choice
	if json.Unmarshal(fields["choices"], &choices) == nil && len(choices) > 0 &&
		strings.TrimSpace(choices[0].Message.Content) != "" {
		return choices[0].Message.Content, nil
	}

	return "", ErrEmptyContent
}
