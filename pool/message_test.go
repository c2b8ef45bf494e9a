package pool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_WireFormat(t *testing.T) {
	ready, err := json.Marshal(ReadyMessage())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ready"}`, string(ready))

	done, err := DoneMessage(map[string]int{"sum": 7})
	require.NoError(t, err)
	raw, err := json.Marshal(done)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"done","payload":{"sum":7}}`, string(raw))

	failed, err := json.Marshal(ErrorMessage())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error"}`, string(failed))
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{"ready", `{"type":"ready"}`, false},
		{"error", `{"type":"error"}`, false},
		{"done with payload", `{"type":"done","payload":[1,2]}`, false},
		{"done without payload", `{"type":"done"}`, false},
		{"ready with payload", `{"type":"ready","payload":1}`, true},
		{"error with payload", `{"type":"error","payload":"boom"}`, true},
		{"unknown type", `{"type":"progress"}`, true},
		{"missing type", `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			require.NoError(t, json.Unmarshal([]byte(tt.line), &msg))

			err := msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessage_Decode(t *testing.T) {
	msg, err := DoneMessage([]string{"a", "b"})
	require.NoError(t, err)

	var out []string
	require.NoError(t, msg.Decode(&out))
	assert.Equal(t, []string{"a", "b"}, out)

	untouched := 5
	require.NoError(t, Message{Type: MessageDone}.Decode(&untouched))
	assert.Equal(t, 5, untouched)

	assert.ErrorIs(t, ReadyMessage().Decode(&out), ErrInvalidArgument)
}

func TestDoneMessage_UnencodablePayload(t *testing.T) {
	_, err := DoneMessage(make(chan int))
	assert.Error(t, err)
}
