package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHistogram_Observe(t *testing.T) {
	h := newHistogram([]float64{0.1, 0.5, 1.0})

	h.Observe(0.05)
	h.Observe(0.3)
	h.Observe(0.7)
	h.Observe(5.0) // exceeds all boundaries

	if h.Count() != 4 {
		t.Errorf("Count = %d, want 4", h.Count())
	}
	if got := h.Sum(); got < 6.04 || got > 6.06 {
		t.Errorf("Sum = %v, want ~6.05", got)
	}

	cum := h.cumulativeBuckets()
	want := []int64{1, 2, 3}
	for i, w := range want {
		if cum[i] != w {
			t.Errorf("bucket %d cumulative = %d, want %d", i, cum[i], w)
		}
	}
}

func TestHistogram_ConcurrentObserve(t *testing.T) {
	h := newHistogram(defaultDurationBuckets)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Observe(0.05)
			}
		}()
	}
	wg.Wait()

	if h.Count() != 1000 {
		t.Errorf("Count = %d, want 1000", h.Count())
	}
}

func TestCounters(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})

	tp.RetrievalCounter("patient_document")
	tp.RetrievalCounter("patient_document")
	tp.RetrievalCounter("medical_knowledge")
	tp.FallbackCounter("empty_retrieval")

	if got := tp.GetCounter("rag.retrieval.count", "patient_document"); got != 2 {
		t.Errorf("patient_document count = %d, want 2", got)
	}
	if got := tp.GetCounter("rag.retrieval.count", "medical_knowledge"); got != 1 {
		t.Errorf("medical_knowledge count = %d, want 1", got)
	}
	if got := tp.GetCounter("rag.fallback.count", "empty_retrieval"); got != 1 {
		t.Errorf("fallback count = %d, want 1", got)
	}
	if got := tp.GetCounter("rag.retrieval.count", "missing"); got != 0 {
		t.Errorf("missing label count = %d, want 0", got)
	}
}

func TestRecordEmbedding(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})

	tp.RecordEmbedding(200*time.Millisecond, nil)
	tp.RecordEmbedding(time.Second, echo.ErrInternalServerError)

	h := tp.GetHistogram("rag.embedding.duration")
	if h == nil || h.Count() != 2 {
		t.Fatal("expected 2 embedding duration observations")
	}
	if got := tp.GetCounter("rag.embedding.count", "ok"); got != 1 {
		t.Errorf("ok count = %d, want 1", got)
	}
	if got := tp.GetCounter("rag.embedding.count", "error"); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
}

func TestHealthMetrics(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	rec := tp.HealthMetrics()

	rec.SetDBPoolActive(3)
	rec.SetDBPoolIdle(7)
	rec.SetDocumentsTotal(12)
	rec.SetKnowledgeEntriesTotal(40)

	if got := tp.GetGauge("documents.total"); got != 12 {
		t.Errorf("documents.total = %d, want 12", got)
	}
	if got := tp.GetGauge("knowledge.entries.total"); got != 40 {
		t.Errorf("knowledge.entries.total = %d, want 40", got)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"bmi"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/query")

	handler := tp.MetricsMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := tp.GetHistogram("http.server.request.duration")
	if h == nil || h.Count() != 1 {
		t.Fatal("expected 1 duration observation")
	}
	labeled := tp.GetLabeledHistogram("http.server.request.duration", LabelsKey("POST", "/api/query", "200"))
	if labeled == nil || labeled.Count() != 1 {
		t.Fatal("expected labeled duration observation")
	}
	if got := tp.GetGauge("http.server.active_requests"); got != 0 {
		t.Errorf("active_requests = %d after completion, want 0", got)
	}
}

func TestMetricsMiddleware_Disabled(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{MetricsEnabled: BoolPtr(false)})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := tp.MetricsMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.GetHistogram("http.server.request.duration") != nil {
		t.Error("metrics recorded while disabled")
	}
}

func TestTracingMiddleware(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/documents")
	c.Set("request_id", "req-1")

	handler := tp.TracingMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := tp.GetRecordedSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "HTTP GET /api/documents" {
		t.Errorf("span name %q", span.Name)
	}
	if span.StatusCode != SpanStatusOK {
		t.Errorf("span status %v, want OK", span.StatusCode)
	}
	if span.Attributes["request.id"] != "req-1" {
		t.Errorf("request.id attribute %q", span.Attributes["request.id"])
	}
	if len(span.TraceID) != 32 || len(span.SpanID) != 16 {
		t.Errorf("unexpected ID lengths: trace %d, span %d", len(span.TraceID), len(span.SpanID))
	}
}

func TestPrometheusHandler(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	tp.RetrievalCounter("medical_knowledge")
	tp.RecordEmbedding(100*time.Millisecond, nil)
	tp.HealthMetrics().SetDocumentsTotal(5)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := tp.PrometheusHandler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()

	for _, want := range []string{
		"# TYPE rag_retrieval_count counter",
		`rag_retrieval_count{source_type="medical_knowledge"} 1`,
		"# TYPE rag_embedding_duration_seconds histogram",
		"rag_embedding_duration_seconds_count 1",
		"documents_total 5",
		"# TYPE http_server_active_requests gauge",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestResource(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{ServiceName: "rag-server", ServiceVersion: "1.2.3", Environment: "production"})
	res := tp.Resource()
	if res["service.name"] != "rag-server" || res["service.version"] != "1.2.3" {
		t.Errorf("unexpected resource: %v", res)
	}
}
