package services

import (
	"strings"
	"testing"
)

func TestChunkTextShortInputIsSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("One paragraph.\n\nAnother paragraph.", 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(chunks))
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	if chunks := chunker.ChunkText("", 1000, 200); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := chunker.ChunkText("\n\n\n\n", 1000, 200); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %d", len(chunks))
	}
}

func TestChunkTextSplitsLongInput(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("This paragraph describes one of the responsibilities of the role in some detail.")
		sb.WriteString("\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 500, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected the long input to be split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 500+100+2 {
			t.Fatalf("chunk %d exceeds the size bound: %d chars", i, len(chunk))
		}
	}
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("Context sentence that should appear near chunk boundaries for retrieval.")
		sb.WriteString("\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 300, 60)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each follow-up chunk starts with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		tail := getLastNChars(chunks[i-1], 60)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d does not carry the previous tail", i)
		}
	}
}
