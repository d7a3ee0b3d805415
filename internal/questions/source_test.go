package questions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/similarity"
)

const introText = `1. Tell me about yourself.
2. Why did you choose engineering?
3. What motivates you to learn new things?
4. What are your hobbies outside academics?
5. Where do you see yourself in five years?
6. Describe a challenge you overcame.`

const technicalText = `What is a linked list?
Explain the difference between a process and a thread.
Tell me about yourself.
What is normalization in DBMS?
How does a Python dictionary work internally?
What is the purpose of the TCP handshake?`

func newTestSource(mock *llm.MockProvider) *Source {
	return New(mock, DefaultConfig(), nil)
}

func TestInitialBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(introText), llm.TextResponse(technicalText))
	src := newTestSource(mock)

	batch, err := src.InitialBatch(context.Background(), []string{"Python"}, "Computer Science", nil)
	require.NoError(t, err)

	assert.Len(t, batch.Intro, BatchSize)
	assert.Equal(t, "Tell me about yourself.", batch.Intro[0])
	// "Tell me about yourself." repeats the intro batch and is dropped.
	assert.Equal(t, []string{
		"What is a linked list?",
		"Explain the difference between a process and a thread.",
		"What is normalization in DBMS?",
		"How does a Python dictionary work internally?",
		"What is the purpose of the TCP handshake?",
	}, batch.Technical)
	assert.Len(t, batch.All(), 10)

	require.Equal(t, 2, mock.CallCount())
	prompts := mock.Prompts()
	assert.Contains(t, prompts[0], "introductory")
	assert.Contains(t, prompts[1], "resume skills (Python)")
	assert.Contains(t, prompts[1], "Data Structures, Algorithms")
}

func TestInitialBatch_PairwiseUnique(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(introText), llm.TextResponse(technicalText))
	batch, err := newTestSource(mock).InitialBatch(context.Background(), nil, "Civil", nil)
	require.NoError(t, err)

	all := batch.All()
	for i := range all {
		for j := range all {
			if i != j {
				assert.LessOrEqual(t, similarity.Score(all[i], all[j]), similarity.Threshold)
			}
		}
	}
}

func TestInitialBatch_ShortBatchIsFine(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse("Tell me about yourself.\n\n"),
		llm.TextResponse("Tell me about yourself.\nWhat is Ohm's law?"),
	)
	batch, err := newTestSource(mock).InitialBatch(context.Background(), nil, "Electrical", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tell me about yourself."}, batch.Intro)
	assert.Equal(t, []string{"What is Ohm's law?"}, batch.Technical)
	assert.Equal(t, 2, mock.CallCount())
}

func TestInitialBatch_Fallbacks(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("a"), llm.TextResponse("b"))
	_, err := newTestSource(mock).InitialBatch(context.Background(), nil, "Aerospace", nil)
	require.NoError(t, err)

	prompt := mock.Prompts()[1]
	assert.Contains(t, prompt, "basic technical knowledge")
	assert.Contains(t, prompt, "basic engineering topics")
}

func TestInitialBatch_CapabilityError(t *testing.T) {
	down := &llm.ErrProviderUnavailable{Err: errors.New("down")}

	mock := llm.NewMockProvider(llm.MockResponse{Err: down})
	_, err := newTestSource(mock).InitialBatch(context.Background(), nil, "Civil", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introductory")
	assert.ErrorIs(t, err, down)

	mock = llm.NewMockProvider(llm.TextResponse(introText), llm.MockResponse{Err: down})
	_, err = newTestSource(mock).InitialBatch(context.Background(), nil, "Civil", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "technical")
}

func TestDynamicQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("  \"What is a hash collision?\"  \n"))
	asked := []string{"What is a linked list?"}

	q, err := newTestSource(mock).DynamicQuestion(context.Background(),
		[]string{"I used dictionaries in Python."}, []string{"Python"}, "Computer Science", asked)
	require.NoError(t, err)
	assert.Equal(t, "What is a hash collision?", q)

	prompt := mock.Prompts()[0]
	assert.Contains(t, prompt, `"I used dictionaries in Python."`)
	assert.Contains(t, prompt, "1. What is a linked list?")
	assert.Contains(t, prompt, "Only output the question text.")
}

func TestDynamicQuestion_RetriesDuplicates(t *testing.T) {
	asked := []string{"What is a linked list?"}
	mock := llm.NewMockProvider(
		llm.TextResponse("What is a linked list?"),
		llm.TextResponse(""),
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.TextResponse("What is a binary heap?"),
	)

	q, err := newTestSource(mock).DynamicQuestion(context.Background(), nil, nil, "Computer Science", asked)
	require.NoError(t, err)
	assert.Equal(t, "What is a binary heap?", q)
	assert.Equal(t, 4, mock.CallCount())
	assert.Contains(t, mock.Prompts()[0], "basic concepts")
}

func TestDynamicQuestion_ExhaustedAfterFiveCalls(t *testing.T) {
	asked := []string{"Explain polymorphism in Java."}
	mock := llm.NewMockProvider()
	dup := llm.TextResponse("Explain polymorphism in Java.")
	mock.Fallback = &dup

	_, err := newTestSource(mock).DynamicQuestion(context.Background(), nil, nil, "Computer Science", asked)
	require.ErrorIs(t, err, ErrExhausted)

	var ex *ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, MaxDynamicAttempts, ex.Attempts)
	assert.Equal(t, MaxDynamicAttempts, ex.Duplicates)
	assert.Zero(t, ex.CapabilityErrors)
	assert.Equal(t, MaxDynamicAttempts, mock.CallCount())
}

func TestDynamicQuestion_ClassifiesCapabilityErrors(t *testing.T) {
	down := &llm.ErrProviderUnavailable{Err: errors.New("503")}
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: down},
		llm.TextResponse("Explain polymorphism in Java."),
		llm.MockResponse{Err: down},
		llm.MockResponse{Err: down},
		llm.MockResponse{Err: down},
	)

	_, err := newTestSource(mock).DynamicQuestion(context.Background(), nil, nil, "Computer Science",
		[]string{"Explain polymorphism in Java."})

	var ex *ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 4, ex.CapabilityErrors)
	assert.Equal(t, 1, ex.Duplicates)
	assert.False(t, ex.OnlyCapabilityErrors())
	assert.ErrorIs(t, err, down)
	assert.True(t, strings.Contains(err.Error(), "after 5 attempts"))
}

func TestDynamicQuestion_RetryIntervalHonoursContext(t *testing.T) {
	mock := llm.NewMockProvider()
	dup := llm.TextResponse("What is a stack?")
	mock.Fallback = &dup

	cfg := DefaultConfig()
	cfg.RetryInterval = time.Hour
	src := New(mock, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.DynamicQuestion(ctx, nil, nil, "Civil", []string{"What is a stack?"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestCoreTopics(t *testing.T) {
	assert.Equal(t, []string{"Data Structures", "Algorithms", "Operating Systems", "DBMS", "Computer Networks", "OOP"},
		CoreTopics("Computer Science"))
	assert.Equal(t, []string{"basic engineering topics"}, CoreTopics("computer science"))
	assert.Equal(t, []string{"basic engineering topics"}, CoreTopics(""))

	for _, b := range Branches() {
		assert.NotEqual(t, fallbackTopics, CoreTopics(b), b)
	}

	topics := CoreTopics("Civil")
	topics[0] = "changed"
	assert.Equal(t, "Structural Analysis", CoreTopics("Civil")[0])
}

func TestBuildDedup(t *testing.T) {
	assert.Equal(t, "None", buildDedup(nil, 5))
	assert.Equal(t, "1. c\n2. d", buildDedup([]string{"a", "b", "c", "d"}, 2))
}
