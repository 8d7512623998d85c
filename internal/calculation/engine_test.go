package calculation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncidenceEngine(t *testing.T) {
	engine := NewIncidenceEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should start with the no-op logger")
}

func TestIncidenceEngine_SetLogger(t *testing.T) {
	engine := NewIncidenceEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestIncidenceEngine_Compute(t *testing.T) {
	engine := NewIncidenceEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	result, err := engine.Compute(defaultParameters(), decileReference())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 10, result.Len())
	assert.InDelta(t, 98*44.6, result.Totals.Revenue, 1e-9)
	assert.InDelta(t, 0.7*98*44.6, result.Totals.RebatePool, 1e-9)
	assert.True(t, logger.has("DEBUG: revenue="))
	assert.False(t, logger.has("WARN:"))
}

func TestIncidenceEngine_Compute_WarnsWhenTransferCapped(t *testing.T) {
	engine := NewIncidenceEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	params := defaultParameters()
	params.DirectRebateShare = 5
	params.RuralBonusShare = 100

	result, err := engine.Compute(params, territoryReference())
	require.NoError(t, err)
	require.NotNil(t, result.Transfer)
	assert.True(t, result.Transfer.Capped)
	assert.True(t, logger.has("WARN: rural transfer capped"))
}

func TestIncidenceEngine_Compute_Errors(t *testing.T) {
	engine := NewIncidenceEngine()

	_, err := engine.Compute(defaultParameters(), nil)
	assert.ErrorIs(t, err, ErrNoReferenceData)

	_, err = engine.Compute(defaultParameters(), &domain.ReferenceData{})
	assert.ErrorIs(t, err, ErrNoReferenceData)
}

func TestIncidenceEngine_Compute_ParametersAreSnapshots(t *testing.T) {
	engine := NewIncidenceEngine()
	params := defaultParameters()

	first, err := engine.Compute(params, decileReference())
	require.NoError(t, err)

	params.CarbonPrice = 200
	params.SubsidyAllocation[0].Percent = 0
	second, err := engine.Compute(params, decileReference())
	require.NoError(t, err)

	assert.Equal(t, 44.6, first.Parameters.CarbonPrice)
	assert.Equal(t, 30, first.Parameters.SubsidyAllocation[0].Percent)
	assert.Equal(t, 200.0, second.Parameters.CarbonPrice)
}

// TestLogger captures log lines for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) has(prefix string) bool {
	for _, m := range tl.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}
