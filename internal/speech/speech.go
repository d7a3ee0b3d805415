// Package speech converts between interview audio and text.
package speech

import (
	"context"
	"strings"
)

// NoSpeech is the transcript recorded when nothing intelligible was heard.
const NoSpeech = "No speech detected"

// Audio is a recorded answer. Filename carries the container hint
// ("answer.webm") used by transcription backends.
type Audio struct {
	Data     []byte
	Filename string
}

// Recognizer turns recorded audio into text.
type Recognizer interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// Synthesizer speaks text aloud.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// TextRecognizer treats the payload as an already transcribed answer.
// It backs the practice CLI and the "text" speech provider.
type TextRecognizer struct{}

func (TextRecognizer) Transcribe(_ context.Context, audio Audio) (string, error) {
	text := strings.TrimSpace(string(audio.Data))
	if text == "" {
		return NoSpeech, nil
	}
	return text, nil
}

// NopSynthesizer discards every announcement.
type NopSynthesizer struct{}

func (NopSynthesizer) Synthesize(context.Context, string) error { return nil }
