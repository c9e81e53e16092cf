package submission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
)

func sampleAnswers() answers.AnswerSet {
	return answers.AnswerSet{
		PropertyType: answers.Ptr(answers.House),
		LivingArea:   answers.Ptr(140),
		ZipCode:      answers.Ptr("53639"),
		City:         answers.Ptr("Königswinter"),
	}
}

func TestSubmitParsesReport(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"estimated_property_value_eur": 612000, "valuation_confidence": "hoch"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	reply, err := gw.Submit(context.Background(), Request{ID: "req-1", Answers: sampleAnswers()})
	require.NoError(t, err)

	assert.Equal(t, result.Parsed, reply.Outcome)
	assert.Equal(t, 612000.0, *reply.Record.EstimatedValue)
	assert.Equal(t, http.StatusOK, reply.StatusCode)

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "req-1", gotHeader.Get("X-Request-Id"))
	assert.Equal(t, "house", gotBody["propertyType"])
	assert.Equal(t, 140.0, gotBody["livingArea"])
	assert.Contains(t, gotBody, "plotArea", "unanswered fields are sent as null")
	assert.Nil(t, gotBody["plotArea"])
	assert.NotContains(t, gotBody, "isComparison")
}

func TestSubmitAcknowledgementUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Accepted"))
	}))
	defer srv.Close()

	reply, err := NewHTTPGateway(srv.URL).Submit(context.Background(), Request{Answers: sampleAnswers()})
	require.NoError(t, err)
	assert.Equal(t, result.Acknowledged, reply.Outcome)
	assert.Equal(t, result.Fallback(), reply.Record)
}

func TestSubmitCustomAckTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("queued"))
	}))
	defer srv.Close()

	reply, err := NewHTTPGateway(srv.URL, WithAckTokens([]string{"queued"})).
		Submit(context.Background(), Request{Answers: sampleAnswers()})
	require.NoError(t, err)
	assert.Equal(t, result.Acknowledged, reply.Outcome)
}

func TestSubmitErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "workflow crashed", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPGateway(srv.URL).Submit(context.Background(), Request{Answers: sampleAnswers()})
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Contains(t, string(statusErr.Body), "workflow crashed")
	})

	t.Run("accepted token with error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("Accepted"))
		}))
		defer srv.Close()

		_, err := NewHTTPGateway(srv.URL).Submit(context.Background(), Request{Answers: sampleAnswers()})
		var statusErr *StatusError
		assert.ErrorAs(t, err, &statusErr)
	})

	t.Run("unrecognized body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer srv.Close()

		_, err := NewHTTPGateway(srv.URL).Submit(context.Background(), Request{Answers: sampleAnswers()})
		var unknown *UnrecognizedResponseError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "<html>maintenance</html>", string(unknown.Body))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewHTTPGateway(url).Submit(context.Background(), Request{Answers: sampleAnswers()})
		var transport *TransportError
		assert.ErrorAs(t, err, &transport)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPGateway(srv.URL).Submit(ctx, Request{Answers: sampleAnswers()})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestComparisonRequestBody(t *testing.T) {
	orig := sampleAnswers()
	req := Request{
		Answers: answers.AnswerSet{
			PropertyType: answers.Ptr(answers.House),
			ZipCode:      answers.Ptr("53111"),
			City:         answers.Ptr("Bonn"),
		},
		Original: &orig,
	}
	require.True(t, req.IsComparison())

	b, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, true, body["isComparison"])
	assert.Equal(t, "Bonn", body["city"])

	original, ok := body["originalData"].(map[string]any)
	require.True(t, ok, "originalData must be an object")
	assert.Equal(t, "Königswinter", original["city"])
}
