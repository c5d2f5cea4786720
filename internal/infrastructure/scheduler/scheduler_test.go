package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) Execute(ctx context.Context) (int64, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return 3, f.err
}

func testConfig(spec string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Timezone: "Asia/Seoul"},
		Checkout: config.CheckoutConfig{SweepSpec: spec},
	}
}

func TestNew_RegistersSweep(t *testing.T) {
	s, err := New(testConfig("@every 10m"), &fakeSweeper{})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(testConfig("every ten minutes"), &fakeSweeper{})
	assert.ErrorContains(t, err, "every ten minutes")
}

func TestSweep_RunsWithTimeout(t *testing.T) {
	f := &fakeSweeper{err: errors.New("db down")}
	s, err := New(testConfig("0 */5 * * * *"), f)
	require.NoError(t, err)

	s.sweep()
	assert.Equal(t, 1, f.calls)
}

func TestStartStop(t *testing.T) {
	s, err := New(testConfig("@every 1h"), &fakeSweeper{})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
