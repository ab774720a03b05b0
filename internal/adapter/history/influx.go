package history

import (
	"context"
	"fmt"
	"time"

	"lares2mqtt/internal/config"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultBatchSize      = 100
	defaultFlushSeconds   = 10
)

// InfluxRecorder writes sensor state history to an InfluxDB v2 bucket.
// Writes go through the non-blocking batched WriteAPI; async write errors
// are drained into the logger.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   *zap.Logger
}

func Connect(cfg config.HistoryConfig, logger *zap.Logger) (*InfluxRecorder, error) {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushSeconds := cfg.FlushIntervalSeconds
	if flushSeconds <= 0 {
		flushSeconds = defaultFlushSeconds
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushSeconds)*1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb ping failed: %w", err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("influxdb server not healthy")
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	r := &InfluxRecorder{
		client:   client,
		writeAPI: writeAPI,
		logger:   logger,
	}
	go r.drainWriteErrors(writeAPI.Errors())

	return r, nil
}

func (r *InfluxRecorder) RecordNumericState(sensorId string, value float64) {
	r.writeAPI.WritePoint(write.NewPoint(
		"sensor_state",
		map[string]string{"sensor": sensorId},
		map[string]interface{}{"value": value},
		time.Now(),
	))
}

func (r *InfluxRecorder) RecordTextState(sensorId string, value string) {
	r.writeAPI.WritePoint(write.NewPoint(
		"sensor_state",
		map[string]string{"sensor": sensorId},
		map[string]interface{}{"status": value},
		time.Now(),
	))
}

func (r *InfluxRecorder) Close() {
	r.writeAPI.Flush()
	r.client.Close()
}

func (r *InfluxRecorder) drainWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		r.logger.Error("influxdb async write error", zap.Error(err))
	}
}
