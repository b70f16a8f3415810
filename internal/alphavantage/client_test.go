package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func TestGetQuote(t *testing.T) {
	c := quoteServer(t, http.StatusOK, `{"Global Quote": {
		"01. symbol": "WEGE3.SAO", "05. price": "36.1200",
		"07. latest trading day": "2024-05-10", "10. change percent": "-1.2500%"}}`)

	q, err := c.GetQuote(context.Background(), "WEGE3.SAO")
	require.NoError(t, err)
	assert.Equal(t, "36.12", q.Price.String())
	require.NotNil(t, q.ChangePercent)
	assert.InDelta(t, -1.25, *q.ChangePercent, 1e-9)
}

func TestGetQuote_UnknownSymbol(t *testing.T) {
	c := quoteServer(t, http.StatusOK, `{"Global Quote": {}}`)
	_, err := c.GetQuote(context.Background(), "XXXX3.SAO")
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestGetQuote_RateLimited(t *testing.T) {
	c := quoteServer(t, http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`)
	_, err := c.GetQuote(context.Background(), "WEGE3.SAO")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGetQuote_HTTPError(t *testing.T) {
	c := quoteServer(t, http.StatusInternalServerError, ``)
	_, err := c.GetQuote(context.Background(), "WEGE3.SAO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestParsePercent(t *testing.T) {
	assert.Nil(t, parsePercent(""))
	assert.Nil(t, parsePercent("n/a"))
	v := parsePercent(" 0.5% ")
	require.NotNil(t, v)
	assert.Equal(t, 0.5, *v)
}
