package proto

import (
	"encoding/json"
	"testing"

	"ctchen222/hotseat-tictactoe/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientToServerMessage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "move", raw: `{"type":"move","index":4}`},
		{name: "move on first cell", raw: `{"type":"move","index":0}`},
		{name: "restart", raw: `{"type":"restart"}`},
		{name: "theme", raw: `{"type":"theme"}`},
		{name: "state", raw: `{"type":"state"}`},
		{name: "missing type", raw: `{"index":4}`, wantErr: true},
		{name: "unknown type", raw: `{"type":"undo"}`, wantErr: true},
		{name: "index too large", raw: `{"type":"move","index":9}`, wantErr: true},
		{name: "negative index", raw: `{"type":"move","index":-1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ClientToServerMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg))

			err := validator.GetValidator().Struct(msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
