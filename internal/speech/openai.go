package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vintervu/vintervu/internal/llm"
)

const defaultFilename = "answer.webm"

// OpenAIConfig configures the Whisper and TTS backends.
type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	SpeechModel        string
	Voice              string
}

func newOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required for speech")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config), nil
}

// WhisperRecognizer transcribes audio with the OpenAI transcription API.
type WhisperRecognizer struct {
	client *openai.Client
	model  string
}

// NewWhisperRecognizer creates a recognizer. An empty model uses whisper-1.
func NewWhisperRecognizer(cfg OpenAIConfig) (*WhisperRecognizer, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.TranscriptionModel
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperRecognizer{client: client, model: model}, nil
}

// Transcribe returns NoSpeech for an empty payload or an empty transcript.
func (w *WhisperRecognizer) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if len(audio.Data) == 0 {
		return NoSpeech, nil
	}
	name := audio.Filename
	if name == "" {
		name = defaultFilename
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: name,
		Reader:   bytes.NewReader(audio.Data),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", llm.MapOpenAIError(err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return NoSpeech, nil
	}
	return text, nil
}

// Sink receives synthesized audio for a piece of text.
type Sink func(text string, audio io.Reader) error

// DirSink writes each clip to dir as <sha256(text)>.mp3.
func DirSink(dir string) Sink {
	return func(text string, audio io.Reader) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		sum := sha256.Sum256([]byte(text))
		path := filepath.Join(dir, hex.EncodeToString(sum[:])+".mp3")

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, audio); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// OpenAISynthesizer speaks text with the OpenAI speech API.
type OpenAISynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
	sink   Sink
}

// NewOpenAISynthesizer creates a synthesizer. A nil sink discards audio.
func NewOpenAISynthesizer(cfg OpenAIConfig, sink Sink) (*OpenAISynthesizer, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	s := &OpenAISynthesizer{
		client: client,
		model:  openai.TTSModel1,
		voice:  openai.VoiceAlloy,
		sink:   sink,
	}
	if cfg.SpeechModel != "" {
		s.model = openai.SpeechModel(cfg.SpeechModel)
	}
	if cfg.Voice != "" {
		s.voice = openai.SpeechVoice(cfg.Voice)
	}
	return s, nil
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", llm.MapOpenAIError(err))
	}
	defer resp.Close()

	if s.sink == nil {
		_, err = io.Copy(io.Discard, resp)
		return err
	}
	return s.sink(text, resp)
}
