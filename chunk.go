package xfyun

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MaxTextBytes is the server limit on one frame's text before base64 encoding.
	MaxTextBytes = 8000

	// MaxChunkChars bounds a chunk of character input. Chunks are cut on
	// character boundaries, never inside a multi-byte sequence.
	MaxChunkChars = 2500
)

// SplitText cuts text into pieces of at most maxChars characters, in order.
// Concatenating the result yields text exactly.
func SplitText(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = MaxChunkChars
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/maxChars+1)
	count, start := 0, 0
	for i := range text {
		if count == maxChars {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}

func checkTextSize(text []byte) error {
	if len(text) > MaxTextBytes {
		return NewError(ErrorStatusTextTooLong,
			fmt.Sprintf("text is %d bytes, limit is %d", len(text), MaxTextBytes))
	}
	return nil
}
