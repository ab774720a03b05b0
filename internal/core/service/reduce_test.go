package service

import (
	"testing"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/pkg/lareslink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testLogger = zap.Must(zap.NewDevelopment())

func TestReducePowerLines(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":     "1",
		"PCONS":  "12.5",
		"PPROD":  "3",
		"STATUS": "on",
	}

	r := Reduce(domain.CategoryPowerLines, rec, testLogger)

	require.True(r.State.IsNumber())
	assert.EqualValues(t, 12.5, *r.State.Number)
	assert.Equal(t, "12.5", r.State.Payload())
	assert.EqualValues(t, 12.5, r.Attributes["Consumo"])
	assert.EqualValues(t, 3.0, r.Attributes["Produzione"])
	assert.Equal(t, "on", r.Attributes["Status"])
}

func TestReducePowerLinesRejectsSignedValue(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":     "1",
		"PCONS":  "-5",
		"STATUS": "on",
	}

	r := Reduce(domain.CategoryPowerLines, rec, testLogger)

	// a signed reading is not a plain decimal, so the state falls back
	// to the status token
	require.False(r.State.IsNumber())
	assert.Equal(t, "on", r.State.Text)
	assert.Nil(t, r.Attributes["Consumo"])
}

func TestReducePowerLinesNoReadings(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":     "1",
		"STATUS": "standby",
	}

	r := Reduce(domain.CategoryPowerLines, rec, testLogger)

	require.False(r.State.IsNumber())
	assert.Equal(t, "standby", r.State.Payload())
	assert.Nil(t, r.Attributes["Consumo"])
	assert.Nil(t, r.Attributes["Produzione"])
}

func TestReduceSystem(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID": "1",
		"TEMP": map[string]any{
			"IN":  "+21.0",
			"OUT": "5.5",
		},
		"ARM": "ARMED",
	}

	r := Reduce(domain.CategorySystem, rec, testLogger)

	require.False(r.State.IsNumber())
	assert.Equal(t, "ARMED", r.State.Text)
	assert.EqualValues(t, 21.0, r.Attributes["temp_in"])
	assert.EqualValues(t, 5.5, r.Attributes["temp_out"])
}

func TestReduceSystemMissingFields(t *testing.T) {
	r := Reduce(domain.CategorySystem, lareslink.Record{"ID": "1"}, testLogger)

	assert.Equal(t, "unknown", r.State.Text)
	assert.Nil(t, r.Attributes["temp_in"])
	assert.Nil(t, r.Attributes["temp_out"])
}

func TestReduceDomus(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "2",
		"T":   "+19.2",
		"H":   "45",
		"STA": "ok",
	}

	r := Reduce(domain.CategoryDomus, rec, testLogger)

	require.True(r.State.IsNumber())
	assert.EqualValues(t, 19.2, *r.State.Number)
	assert.EqualValues(t, 19.2, r.Attributes["temperature"])
	assert.EqualValues(t, 45.0, r.Attributes["humidity"])
	// raw fields are kept alongside the derived ones
	assert.Equal(t, "ok", r.Attributes["STA"])
}

func TestReduceDomusNoTemperature(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "2",
		"T":   "",
		"STA": "ok",
	}

	r := Reduce(domain.CategoryDomus, rec, testLogger)

	require.False(r.State.IsNumber())
	assert.Equal(t, "ok", r.State.Text)
	assert.Nil(t, r.Attributes["temperature"])
	assert.Nil(t, r.Attributes["humidity"])
}

func TestReduceDomusMalformedTemperature(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "2",
		"T":   "not-a-number",
		"STA": "tamper",
	}

	r := Reduce(domain.CategoryDomus, rec, testLogger)

	// a malformed reading degrades to the status token, never panics
	require.False(r.State.IsNumber())
	assert.Equal(t, "tamper", r.State.Text)
	assert.Nil(t, r.Attributes["temperature"])
}

func TestReducePartitions(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "3",
		"STA": "idle",
		"STAT": []any{
			map[string]any{
				"VAL": []any{
					map[string]any{"ENC": "10"},
				},
			},
			map[string]any{
				"VAL": []any{
					map[string]any{"ENC": "1.5"},
					map[string]any{"ENC": "2.5"},
				},
			},
		},
	}

	r := Reduce(domain.CategoryPartitions, rec, testLogger)

	// only the last STAT element counts
	require.True(r.State.IsNumber())
	assert.EqualValues(t, 4.0, *r.State.Number)
	assert.EqualValues(t, 4.0, r.Attributes["total_consumption"])
}

func TestReducePartitionsEmptyStat(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "3",
		"STA": "idle",
	}

	r := Reduce(domain.CategoryPartitions, rec, testLogger)

	require.False(r.State.IsNumber())
	assert.Equal(t, "idle", r.State.Text)
	assert.EqualValues(t, 0.0, r.Attributes["total_consumption"])
}

func TestReducePartitionsMalformedEntry(t *testing.T) {
	require := require.New(t)

	rec := lareslink.Record{
		"ID":  "3",
		"STA": "idle",
		"STAT": []any{
			map[string]any{
				"VAL": []any{
					map[string]any{"ENC": "bogus"},
					map[string]any{"ENC": "2"},
				},
			},
		},
	}

	r := Reduce(domain.CategoryPartitions, rec, testLogger)

	// malformed entries are skipped, valid ones still sum
	require.True(r.State.IsNumber())
	assert.EqualValues(t, 2.0, *r.State.Number)
}

func TestReduceGenericFallback(t *testing.T) {
	rec := lareslink.Record{
		"ID":  "9",
		"STA": "open",
	}

	r := Reduce(domain.CategoryZones, rec, testLogger)

	assert.False(t, r.State.IsNumber())
	assert.Equal(t, "open", r.State.Text)
	assert.Equal(t, "open", r.Attributes["STA"])
}

func TestStatePayloadFormatting(t *testing.T) {
	assert.Equal(t, "4", NumberState(4).Payload())
	assert.Equal(t, "12.5", NumberState(12.5).Payload())
	assert.Equal(t, "ARMED", TextState("ARMED").Payload())
}

func TestPlainDecimal(t *testing.T) {
	assert.True(t, plainDecimal("0"))
	assert.True(t, plainDecimal("1250.5"))
	assert.True(t, plainDecimal(".5"))
	assert.False(t, plainDecimal(""))
	assert.False(t, plainDecimal("."))
	assert.False(t, plainDecimal("-5"))
	assert.False(t, plainDecimal("+5"))
	assert.False(t, plainDecimal("1.2.3"))
	assert.False(t, plainDecimal("1e3"))
}
