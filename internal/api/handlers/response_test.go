package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "слот заполнен")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "слот заполнен"}, body)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		SlotID int64 `json:"slotId"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"slotId": 5}`, false},
		{"unknown field", `{"slotId": 5, "extra": true}`, true},
		{"two objects", `{"slotId": 5}{"slotId": 6}`, true},
		{"malformed", `{"slotId": `, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), p.SlotID)
		})
	}
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := PathInt64(mux.SetURLVars(r, map[string]string{"id": "42"}), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathInt64(mux.SetURLVars(r, map[string]string{"id": "abc"}), "id")
	assert.Error(t, err)

	_, err = PathInt64(mux.SetURLVars(r, map[string]string{"id": "0"}), "id")
	assert.Error(t, err)

	_, err = PathInt64(r, "id")
	assert.Error(t, err)
}
