package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTextRecognizer(t *testing.T) {
	var r TextRecognizer
	got, err := r.Transcribe(context.Background(), Audio{Data: []byte("  I like Go.\n")})
	require.NoError(t, err)
	assert.Equal(t, "I like Go.", got)

	got, err = r.Transcribe(context.Background(), Audio{})
	require.NoError(t, err)
	assert.Equal(t, NoSpeech, got)
}

func newSpeechServer(t *testing.T, handler http.HandlerFunc) OpenAIConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"}
}

func TestWhisperRecognizer(t *testing.T) {
	var gotPath, gotModel, gotFile string
	cfg := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		if _, hdr, err := r.FormFile("file"); assert.NoError(t, err) {
			gotFile = hdr.Filename
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"text": "  A thread shares memory. "})
	})

	rec, err := NewWhisperRecognizer(cfg)
	require.NoError(t, err)

	text, err := rec.Transcribe(context.Background(), Audio{Data: []byte("RIFF...."), Filename: "a.wav"})
	require.NoError(t, err)
	assert.Equal(t, "A thread shares memory.", text)
	assert.Equal(t, "/v1/audio/transcriptions", gotPath)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "a.wav", gotFile)
}

func TestWhisperRecognizer_EmptyAudioSkipsCall(t *testing.T) {
	called := false
	cfg := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	rec, err := NewWhisperRecognizer(cfg)
	require.NoError(t, err)

	text, err := rec.Transcribe(context.Background(), Audio{Data: []byte{}})
	require.NoError(t, err)
	assert.Equal(t, NoSpeech, text)
	assert.False(t, called)
}

func TestWhisperRecognizer_Error(t *testing.T) {
	cfg := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	rec, err := NewWhisperRecognizer(cfg)
	require.NoError(t, err)

	_, err = rec.Transcribe(context.Background(), Audio{Data: []byte("x")})
	assert.Error(t, err)
}

func TestNewOpenAIBackends_RequireKey(t *testing.T) {
	_, err := NewWhisperRecognizer(OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewOpenAISynthesizer(OpenAIConfig{}, nil)
	assert.Error(t, err)
}

func TestOpenAISynthesizer(t *testing.T) {
	var body map[string]any
	cfg := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-audio"))
	})
	cfg.Voice = "nova"

	var gotText, gotAudio string
	sink := func(text string, audio io.Reader) error {
		b, err := io.ReadAll(audio)
		gotText, gotAudio = text, string(b)
		return err
	}

	s, err := NewOpenAISynthesizer(cfg, sink)
	require.NoError(t, err)
	require.NoError(t, s.Synthesize(context.Background(), "Tell me about yourself."))

	assert.Equal(t, "Tell me about yourself.", gotText)
	assert.Equal(t, "ID3-audio", gotAudio)
	assert.Equal(t, "nova", body["voice"])
	assert.Equal(t, "tts-1", body["model"])
	assert.Equal(t, "mp3", body["response_format"])
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips")
	sink := DirSink(dir)
	require.NoError(t, sink("hello", strings.NewReader("audio-bytes")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".mp3"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

type recordingSynth struct {
	mu    sync.Mutex
	texts []string
	err   error
	block bool
}

func (r *recordingSynth) Synthesize(ctx context.Context, text string) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return r.err
}

func TestAnnouncer_SpeaksInOrder(t *testing.T) {
	synth := &recordingSynth{}
	a := NewAnnouncer(synth, time.Second, nil)

	a.Announce("s1", "first")
	a.Announce("s1", "second")
	a.Close()

	assert.Equal(t, []string{"first", "second"}, synth.texts)
}

func TestAnnouncer_FailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	synth := &recordingSynth{err: errors.New("tts down")}
	a := NewAnnouncer(synth, time.Second, zap.New(core))

	a.Announce("s-42", "question")
	a.Close()

	entries := logs.FilterMessage("speech synthesis failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "s-42", entries[0].ContextMap()["session_id"])
}

func TestAnnouncer_TimeoutBoundsSynthesis(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := NewAnnouncer(&recordingSynth{block: true}, 10*time.Millisecond, zap.New(core))

	start := time.Now()
	a.Announce("s", "slow")
	a.Close()

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, logs.Len())
}

func TestAnnouncer_AnnounceAfterCloseIsDropped(t *testing.T) {
	synth := &recordingSynth{}
	a := NewAnnouncer(synth, 0, nil)
	a.Close()

	assert.NotPanics(t, func() { a.Announce("s", "late") })
	assert.NotPanics(t, a.Close)
	assert.Empty(t, synth.texts)
}
