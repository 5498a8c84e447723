package handlers

import (
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

	RespondNotFound(rec, "invalid user")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"invalid user"}`, rec.Body.String())
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondInternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgInternalError+`"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Text string `json:"text"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "hi", v.Text)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi","extra":1}`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-1", ""} {
		r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": raw})
		_, err := PathID(r, "id")
		assert.Error(t, err, raw)
	}
}

func TestOptionalInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=5&size=x", nil)

	from, err := OptionalInt(r, "from")
	require.NoError(t, err)
	assert.Equal(t, 5, *from)

	_, err = OptionalInt(r, "size")
	assert.Error(t, err)

	missing, err := OptionalInt(r, "state")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
