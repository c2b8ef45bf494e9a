package pool

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readMessages decodes every newline-delimited message written by ServeTask.
func readMessages(t *testing.T, out *bytes.Buffer) []Message {
	t.Helper()

	var msgs []Message
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var msg Message
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		require.NoError(t, msg.Validate())
		msgs = append(msgs, msg)
	}
	require.NoError(t, scanner.Err())
	return msgs
}

func TestServeTask_Done(t *testing.T) {
	in := strings.NewReader("21\n")
	var out bytes.Buffer

	err := ServeTask(context.Background(), in, &out, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})
	require.NoError(t, err)

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)
	assert.Equal(t, MessageReady, msgs[0].Type)
	assert.Equal(t, MessageDone, msgs[1].Type)

	var result int
	require.NoError(t, msgs[1].Decode(&result))
	assert.Equal(t, 42, result)
}

func TestServeTask_StructPayload(t *testing.T) {
	type task struct {
		Files []string `json:"files"`
	}
	type result struct {
		Count int `json:"count"`
	}

	in := strings.NewReader(`{"files":["a.txt","b.txt","c.txt"]}` + "\n")
	var out bytes.Buffer

	err := ServeTask(context.Background(), in, &out, func(ctx context.Context, tk task) (result, error) {
		return result{Count: len(tk.Files)}, nil
	})
	require.NoError(t, err)

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)
	assert.JSONEq(t, `{"count":3}`, string(msgs[1].Payload))
}

func TestServeTask_FnError(t *testing.T) {
	fnErr := errors.New("disk full")
	var out bytes.Buffer

	err := ServeTask(context.Background(), strings.NewReader("1\n"), &out, func(ctx context.Context, n int) (int, error) {
		return 0, fnErr
	})
	assert.ErrorIs(t, err, fnErr)

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)
	assert.Equal(t, MessageError, msgs[1].Type)
	assert.Empty(t, msgs[1].Payload, "error detail must not be sent to the parent")
}

func TestServeTask_Panic(t *testing.T) {
	var out bytes.Buffer

	err := ServeTask(context.Background(), strings.NewReader("1\n"), &out, func(ctx context.Context, n int) (int, error) {
		panic("unexpected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker panic: unexpected")

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)
	assert.Equal(t, MessageError, msgs[1].Type)
}

func TestServeTask_BadTask(t *testing.T) {
	var out bytes.Buffer
	called := false

	err := ServeTask(context.Background(), strings.NewReader("not json"), &out, func(ctx context.Context, n int) (int, error) {
		called = true
		return n, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode task")
	assert.False(t, called)

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)
	assert.Equal(t, MessageError, msgs[1].Type)
}

func TestServeTask_NoTask(t *testing.T) {
	var out bytes.Buffer

	err := ServeTask(context.Background(), strings.NewReader(""), &out, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	require.Error(t, err)

	msgs := readMessages(t, &out)
	require.NotEmpty(t, msgs)
	assert.Equal(t, MessageReady, msgs[0].Type)
}
