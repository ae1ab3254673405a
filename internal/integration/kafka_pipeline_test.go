//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/air-quality-etl/internal/adapter/kafka"
	"github.com/couchcryptid/air-quality-etl/internal/config"
	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
	"github.com/couchcryptid/air-quality-etl/internal/pipeline"
	"github.com/couchcryptid/air-quality-etl/internal/table"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// reportMessage holds a deserialized message read from the sink topic.
type reportMessage struct {
	Envelope domain.ReportEnvelope
	Key      string
	Headers  map[string]string
}

// readReport reads a single message from the sink consumer and deserializes it.
func readReport(ctx context.Context, t *testing.T, consumer *kafkago.Reader) reportMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var env domain.ReportEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env), "unmarshal sink message")

	return reportMessage{Envelope: env, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
		ReportCacheSize:    16,
		MaxUploadBytes:     1 << 20,
	}
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader and
// kafka.Writer round-trip a daily table and its report through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := loadDailyTable(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:     []byte("cotonou-2025-01-14.csv"),
		Value:   payload,
		Headers: []kafkago.Header{{Key: "Content-Type", Value: []byte(table.ContentTypeCSV)}},
	}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("cotonou-2025-01-14.csv"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, table.ContentTypeCSV, raw.Headers["content-type"])
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(cfg.ReportCacheSize, discardLogger(), observability.NewMetricsForTesting())
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	rm := readReport(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "2025-01-14", rm.Key)
	assert.Equal(t, "2025-01-14", rm.Headers["report_date"])
	assert.Equal(t, "500", rm.Headers["city_max_aqi"])
	_, err = time.Parse(time.RFC3339, rm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, "cotonou-2025-01-14.csv", rm.Envelope.Source)
	assert.Equal(t, 264, rm.Envelope.Report.AverageAQI)
	assert.Equal(t, "Akpakpa", rm.Envelope.Report.CriticalStation)
	assert.Equal(t, domain.PM10, rm.Envelope.Report.CriticalPollutant)
}

// TestPipelineEndToEnd wires Reader, Transformer and Writer against a real
// broker. A malformed file and a header-only file are acknowledged without
// output; the two valid files each yield one report.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	jsonDay := `[{"date": "2025-01-15 08:00", "O3 (Cadjehoun)": 72, "PM2.5 (Cadjehoun)": 12.4}]`
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad.csv"), Value: []byte("hour,NO2 (A)\n08:00,1\n")},
		kafkago.Message{Key: []byte("empty.csv"), Value: []byte("date,NO2 (A)\n")},
		kafkago.Message{Key: []byte("day-14.csv"), Value: loadDailyTable(t)},
		kafkago.Message{
			Key:     []byte("day-15.json"),
			Value:   []byte(jsonDay),
			Headers: []kafkago.Header{{Key: "content-type", Value: []byte(table.ContentTypeJSON)}},
		},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(cfg.ReportCacheSize, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	reports := map[string]reportMessage{}
	for len(reports) < 2 {
		rm := readReport(ctx, t, consumer)
		reports[rm.Key] = rm
	}

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no further reports on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))

	day14 := reports["2025-01-14"].Envelope.Report
	assert.Equal(t, 500, day14.MaxAQI)
	assert.Equal(t, 264, day14.AverageAQI)
	assert.Len(t, day14.Stations, 2)

	day15 := reports["2025-01-15"].Envelope.Report
	assert.Equal(t, 105, day15.MaxAQI)
	assert.Equal(t, domain.O3, day15.CriticalPollutant)
	assert.Equal(t, "Cadjehoun", day15.CriticalStation)
	assert.Equal(t, "day-15.json", reports["2025-01-15"].Envelope.Source)
}
