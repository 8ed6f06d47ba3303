package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/common"
	"github.com/freightops/invoice-audit/internal/document"
	"github.com/freightops/invoice-audit/internal/llm"
)

// Extract implements llm.Extractor over chat/completions. The document
// goes in as an inline attachment (image or PDF data URL), the schema
// rides along as a system message, and the reply is validated locally
// before it is returned.
func (c *Client) Extract(ctx context.Context, doc llm.Document, req llm.Request) (json.RawMessage, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("model.extract.start",
		"req_id", rid,
		"batch_id", common.BatchIDFromContext(ctx),
		"model", c.cfg.Model,
		"file", doc.Filename,
		"content_type", doc.ContentType,
		"max_pages", req.MaxPages,
		"doc_sha256", document.HashHex(doc.Bytes),
	)

	// Page scope is enforced on the document itself, not just in the
	// prompt. If trimming fails we proceed with the full document and
	// let the instruction carry the boundary.
	scoped, err := document.FirstPages(doc, req.MaxPages)
	if err != nil {
		c.logger.Warn("model.extract.page_trim_failed", "req_id", rid, "error", err)
		scoped = doc
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt(req)},
			{"role": "user", "content": userContent(scoped, req.Instruction)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(req.Schema)},
		},
	}

	raw, err := c.post(ctx, rid, body)
	if err != nil {
		c.logger.Error("model.extract.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("openai call: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("model.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("decode openai response: %w", llm.ErrNoStructuredOutput)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("model.extract.no_choices",
			"req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("no choices in openai response: %w", llm.ErrNoStructuredOutput)
	}

	content := []byte(stripFences(cc.Choices[0].Message.Content))
	if len(content) == 0 {
		return nil, fmt.Errorf("empty completion: %w", llm.ErrNoStructuredOutput)
	}

	if err := llm.ValidateJSONAgainstSchema(req.Schema, content); err != nil {
		if c.cfg.StrictSchema {
			c.logger.Error("model.extract.schema_validation_failed",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil, fmt.Errorf("schema validation failed: %w", llm.ErrNoStructuredOutput)
		}
		cleaned, touched, sErr := llm.SanitizeAgainstSchema(req.Schema, content)
		if sErr != nil {
			c.logger.Error("model.extract.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil, fmt.Errorf("sanitize failed: %w", llm.ErrNoStructuredOutput)
		}
		if vErr := llm.ValidateJSONAgainstSchema(req.Schema, cleaned); vErr != nil {
			c.logger.Error("model.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(content),
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil, fmt.Errorf("schema validation failed: %w", llm.ErrNoStructuredOutput)
		}
		c.logger.Warn("model.extract.sanitize_applied",
			"req_id", rid, "touched", touched,
			"elapsed_ms", time.Since(start).Milliseconds())
		content = cleaned
	}

	c.logger.Info("model.extract.ok",
		"req_id", rid,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// post sends one chat/completions request and returns the raw response
// body. Non-2xx statuses are errors carrying a trimmed response body.
func (c *Client) post(ctx context.Context, rid string, body any) ([]byte, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Info("model.http.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, trimBody(raw))
	}
	return raw, nil
}

// trimBody keeps provider error bodies log-sized.
func trimBody(b []byte) string {
	const max = 512
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func systemPrompt(req llm.Request) string {
	pages := req.MaxPages
	if pages <= 0 {
		pages = 1
	}
	var scope string
	if pages == 1 {
		scope = "Analyze ONLY the first page of the attached document. Ignore all later pages."
	} else {
		scope = fmt.Sprintf("Analyze ONLY the first %d pages of the attached document. Ignore all later pages.", pages)
	}
	parts := []string{
		"You are a freight-forwarding documents analyst. Return ONLY JSON that matches the provided JSON Schema.",
		scope,
		"Never output null. If a value is not present in the document, omit the field.",
		"Amounts must come from the document as written, without currency symbols if possible.",
	}
	return strings.Join(parts, " ")
}

// userContent builds the multi-part user message: the task instruction
// plus the document as an inline attachment. PDFs attach as files,
// everything else as an image.
func userContent(doc llm.Document, instruction string) []map[string]any {
	parts := []map[string]any{
		{"type": "text", "text": instruction},
	}
	dataURL := "data:" + doc.ContentType + ";base64," + base64.StdEncoding.EncodeToString(doc.Bytes)
	if constants.MapExtToFormat(filepath.Ext(doc.Filename)) == constants.PDF {
		parts = append(parts, map[string]any{
			"type": "file",
			"file": map[string]any{
				"filename":  doc.Filename,
				"file_data": dataURL,
			},
		})
	} else {
		parts = append(parts, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": dataURL},
		})
	}
	return parts
}

// stripFences unwraps ```json fenced replies, which some models emit
// even when asked for a bare JSON object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
