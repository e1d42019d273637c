package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	require.Equal(t, OutcomeSuccess, Outcome(true, nil))
	require.Equal(t, OutcomeRejected, Outcome(false, nil))
	require.Equal(t, OutcomeError, Outcome(true, errors.New("x")))
}

func TestObserveDuration(t *testing.T) {
	before := testutil.CollectAndCount(OperationDuration)
	ObserveDuration("metrics_test_op", time.Now().Add(-time.Millisecond))
	require.Equal(t, before+1, testutil.CollectAndCount(OperationDuration))
}

func TestCountersIncrement(t *testing.T) {
	c := InvitesIssued.WithLabelValues("code")
	before := testutil.ToFloat64(c)
	c.Inc()
	require.InDelta(t, before+1, testutil.ToFloat64(c), 0.0001)
}
