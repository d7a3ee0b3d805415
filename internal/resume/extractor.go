package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/logger"
)

const (
	purpose = "resume-extract"

	// maxPromptChars bounds the resume text sent to the model.
	maxPromptChars = 4000

	extractMaxTokens = 1024
)

var pdfMagic = []byte("%PDF-")

// Extractor reads a PDF resume and asks the model for its skills and
// project titles.
type Extractor struct {
	provider llm.Provider
	log      *zap.Logger

	// pdfText is swapped in tests.
	pdfText func([]byte) (string, error)
}

// NewExtractor creates an Extractor.
func NewExtractor(provider llm.Provider, log *zap.Logger) *Extractor {
	return &Extractor{provider: provider, log: logger.OrNop(log), pdfText: PDFText}
}

// Extract builds a Profile from a PDF document. Unreadable documents return
// a *ParsingError. A failed or malformed model reply yields empty skill and
// project lists rather than an error.
func (e *Extractor) Extract(ctx context.Context, doc []byte) (Profile, error) {
	if len(doc) > MaxUploadSize {
		return Profile{}, ErrTooLarge
	}
	if !bytes.HasPrefix(doc, pdfMagic) {
		return Profile{}, &ParsingError{Reason: "not a PDF document"}
	}

	text, err := e.pdfText(doc)
	if err != nil {
		return Profile{}, err
	}
	e.log.Debug("resume text extracted",
		zap.Int("chars", len(text)),
		zap.String("snippet", logger.TruncateForLog(text, 100)),
	)

	skills, projects := e.extractLists(ctx, text)
	return Profile{
		Skills:   skills,
		Projects: projects,
		Branch:   InferBranch(skills),
	}, nil
}

func (e *Extractor) extractLists(ctx context.Context, text string) (skills, projects []string) {
	req := llm.UserPrompt("", buildExtractPrompt(text))
	req.Schema = Schema
	req.MaxTokens = extractMaxTokens

	resp, err := e.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		e.log.Warn("resume extraction failed", zap.Error(err))
		return []string{}, []string{}
	}

	var out struct {
		Skills   []string `json:"skills"`
		Projects []string `json:"projects"`
	}
	body := llm.StripCodeFence(string(resp.Content))
	if err := llm.ValidateJSON(Schema, json.RawMessage(body)); err != nil {
		e.log.Warn("resume extraction unparsable", zap.Error(err))
		return []string{}, []string{}
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		e.log.Warn("resume extraction undecodable", zap.Error(err))
		return []string{}, []string{}
	}
	return cleanList(out.Skills), cleanList(out.Projects)
}

func buildExtractPrompt(text string) string {
	if r := []rune(text); len(r) > maxPromptChars {
		text = string(r[:maxPromptChars])
	}

	var b strings.Builder
	b.WriteString("Extract the following information from the resume text:\n")
	b.WriteString("1. A list of all skills (technical, soft, domain-specific, etc.).\n")
	b.WriteString("2. A list of project titles only.\n\n")
	b.WriteString(`Respond in JSON format like this: {"skills": ["Skill1", "Skill2"], "projects": ["Project Title 1"]}`)
	b.WriteString("\n\nResume Text:\n")
	b.WriteString(text)
	return b.String()
}

// PDFText returns the plain text of every page in doc.
func PDFText(doc []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ParsingError{Reason: "malformed PDF", Err: fmt.Errorf("%v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", &ParsingError{Reason: "open PDF", Err: err}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", &ParsingError{Reason: "read PDF text", Err: err}
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", &ParsingError{Reason: "read PDF text", Err: err}
	}
	return strings.TrimSpace(string(raw)), nil
}
