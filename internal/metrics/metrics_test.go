package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveAnswer(true)
	m.ObserveAnswer(true)
	m.ObserveAnswer(false)
	m.AddXP(25)
	m.AddXP(-5)
	m.SessionCompleted("math")
	m.MistakeLogged()
	m.PersistFailed()
	m.LLMRequest("question-gen", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Answers.WithLabelValues("correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("incorrect")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.XPAwarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted.WithLabelValues("math")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MistakesLogged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("question-gen", "error")))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAnswer(true)
	m.AddXP(10)
	m.SessionCompleted("math")
	m.MistakeLogged()
	m.PersistFailed()
	m.LLMRequest("x", true)
}

func TestHandler(t *testing.T) {
	m := New()
	m.AddXP(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "acedrill_xp_awarded_total 7"))
}
