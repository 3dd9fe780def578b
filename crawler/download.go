package crawler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	OutputText  = "text"
	OutputJSONL = "jsonl"
)

// WriteText writes every document's text followed by a blank line, in order.
func WriteText(w io.Writer, docs []PageDocument) error {
	for _, doc := range docs {
		if _, err := io.WriteString(w, doc.Text+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSONL writes one {"url","text","hash"} object per line.
func WriteJSONL(w io.Writer, docs []PageDocument) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

// SaveOutput writes docs to path in the given format. The file is created even
// when docs is empty.
func SaveOutput(path, format string, docs []PageDocument) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	switch format {
	case OutputText, "":
		err = WriteText(w, docs)
	case OutputJSONL:
		err = WriteJSONL(w, docs)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
