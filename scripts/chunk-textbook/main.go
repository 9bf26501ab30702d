// chunk-textbook splits a textbook PDF into fixed-size text chunks suitable
// for feeding to a model one piece at a time.
//
// Usage:
//
//	go run scripts/chunk-textbook/main.go [input.pdf] [output-dir]
//
// Defaults: data/textbook.pdf and data/chunks. Each chunk is written as
// chunk_NNN.txt; metadata.json records the source, page count, character
// count, chunk count, and generation time.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const chunkSize = 3000

type metadata struct {
	Source         string    `json:"source"`
	PageCount      int       `json:"page_count"`
	CharacterCount int       `json:"character_count"`
	ChunkCount     int       `json:"chunk_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func main() {
	inputPath := "data/textbook.pdf"
	outputDir := "data/chunks"
	if len(os.Args) > 1 {
		inputPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outputDir = os.Args[2]
	}

	if err := run(inputPath, outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "chunk-textbook: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputDir string) error {
	text, pageCount, err := extractText(inputPath)
	if err != nil {
		return err
	}
	charCount := utf8.RuneCountInString(text)
	fmt.Fprintf(os.Stderr, "extracted %d characters from %d pages\n", charCount, pageCount)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	chunks := splitChunks(text, chunkSize)
	for i, chunk := range chunks {
		name := filepath.Join(outputDir, fmt.Sprintf("chunk_%03d.txt", i+1))
		if err := os.WriteFile(name, []byte(chunk), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	fmt.Fprintf(os.Stderr, "wrote %d chunks to %s\n", len(chunks), outputDir)

	meta := metadata{
		Source:         inputPath,
		PageCount:      pageCount,
		CharacterCount: charCount,
		ChunkCount:     len(chunks),
		GeneratedAt:    time.Now().UTC(),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	metaPath := filepath.Join(outputDir, "metadata.json")
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", metaPath, err)
	}

	return nil
}

// extractText concatenates the plain text of every page, in order.
func extractText(path string) (string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pageCount := reader.NumPage()
	var text strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), pageCount, nil
}

// splitChunks partitions text into sequential slices of at most size
// characters. Counting runes keeps multi-byte Japanese text from being
// split mid-character. Boundaries are positional only.
func splitChunks(text string, size int) []string {
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
