package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := CheckoutsTotal
	InitMetrics()
	assert.Same(t, first, CheckoutsTotal)
}

func TestObservePaymentConfirmation(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(PaymentConfirmationsTotal.WithLabelValues("amount_mismatch"))
	ObservePaymentConfirmation("amount_mismatch", 0.2)
	ObservePaymentConfirmation("amount_mismatch", 0.3)

	after := testutil.ToFloat64(PaymentConfirmationsTotal.WithLabelValues("amount_mismatch"))
	assert.Equal(t, before+2, after)
}

func TestAddStagingSwept_IgnoresZero(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(StagingOrdersSweptTotal)
	AddStagingSwept(0)
	AddStagingSwept(3)
	assert.Equal(t, before+3, testutil.ToFloat64(StagingOrdersSweptTotal))
}

func TestHandler_Exposition(t *testing.T) {
	InitMetrics()
	ObserveOrderTransition("PENDING_DELIVERY", "CANCELLING")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "storefront_order_status_transitions_total"))
}
