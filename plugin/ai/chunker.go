package ai

import "strings"

const (
	// ChunkSize is the maximum character count per chunk.
	ChunkSize = 500
	// ChunkOverlap is the character count carried over between chunks.
	ChunkOverlap = 50
)

// ChunkDocument splits a long document into chunks for embedding, preserving
// paragraph boundaries when possible. Policy documents are usually a single
// short paragraph, so most inputs come back as one chunk.
func ChunkDocument(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= ChunkSize {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder

	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(para) > ChunkSize {
			chunks = append(chunks, current.String())
			overlap := tailOf(current.String(), ChunkOverlap)
			current.Reset()
			if overlap != "" {
				current.WriteString(overlap)
				current.WriteString("\n\n")
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)

		// Force-split paragraphs longer than a whole chunk.
		for current.Len() > ChunkSize {
			text := current.String()
			cut := breakPoint(text, ChunkSize)
			chunks = append(chunks, strings.TrimSpace(text[:cut]))
			current.Reset()
			current.WriteString(strings.TrimSpace(text[cut:]))
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// breakPoint finds a cut position at or before limit, preferring a sentence
// end, then a space, then a hard cut.
func breakPoint(text string, limit int) int {
	if limit >= len(text) {
		return len(text)
	}
	window := text[:limit]
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if idx := strings.LastIndex(window, sep); idx > limit/2 {
			return idx + len(sep)
		}
	}
	if idx := strings.LastIndex(window, " "); idx > limit/2 {
		return idx + 1
	}
	return limit
}

func tailOf(text string, n int) string {
	if len(text) <= n {
		return text
	}
	tail := text[len(text)-n:]
	// Avoid starting mid-word.
	if idx := strings.Index(tail, " "); idx >= 0 && idx+1 < len(tail) {
		return tail[idx+1:]
	}
	return tail
}
