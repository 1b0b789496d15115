package openai_provider

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const doneSentinel = "[DONE]"

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatStream reads server-sent events from a streamed completion
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func newChatStream(body io.ReadCloser) *ChatStream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ChatStream{body: body, scanner: sc}
}

// Recv returns the next piece of content. Chunks without content (role
// announcements, finish markers) are skipped. io.EOF marks the end.
func (s *ChatStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == doneSentinel {
			s.done = true
			return "", io.EOF
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("failed to parse stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
			continue
		}
		if content := *chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}
	return "", io.EOF
}

func (s *ChatStream) Close() error {
	s.done = true
	return s.body.Close()
}
