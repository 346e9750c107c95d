package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lunban/lunban/internal/metrics"
)

func TestRecordMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New() error = %v", err)
	}

	r := chi.NewRouter()
	r.Use(RecordMetrics(m))
	r.Get("/api/v1/shifts/optimization-status/{task_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 不同任务 ID 的请求必须落在同一个指标序列上
	for _, id := range []string{"aaaa-1111", "bbbb-2222", "cccc-3333"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts/optimization-status/"+id, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != "lunban_http_requests_total" {
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("请求计数序列数 = %d, expected 1", len(mf.GetMetric()))
		}
		series := mf.GetMetric()[0]
		if series.GetCounter().GetValue() != 3 {
			t.Errorf("计数值 = %v, expected 3", series.GetCounter().GetValue())
		}
		for _, label := range series.GetLabel() {
			if label.GetName() == "path" && label.GetValue() != "/api/v1/shifts/optimization-status/{task_id}" {
				t.Errorf("path 标签 = %s, expected 路由模板", label.GetValue())
			}
		}
		return
	}
	t.Fatal("未找到请求计数指标")
}
