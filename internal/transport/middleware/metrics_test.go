package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Middleware Suite")
}

var _ = Describe("Metrics", func() {
	It("should label parameterized routes by their pattern, not the raw path", func() {
		router := chi.NewRouter()
		router.Use(Metrics)
		router.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "200"))

		for _, path := range []string{"/widgets/1", "/widgets/2", "/widgets/99"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
		}

		after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "200"))
		Expect(after - before).To(Equal(float64(3)))

		// No per-id series may exist.
		Expect(testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/widgets/1", "200"))).To(Equal(float64(0)))
	})
})
