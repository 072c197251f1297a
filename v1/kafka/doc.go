// Package kafka publishes and consumes schema-encoded messages on Apache
// Kafka topics.
//
// A KafkaClient is either a producer or a consumer (Config.IsConsumer). It
// encodes outgoing messages and decodes incoming ones through a
// messaging.Codec, so every record value is a message envelope.
//
// # Publishing
//
//	client, err := kafka.NewClient(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "addresses",
//	}, codec)
//	if err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
//
//	err = client.Publish(ctx, "user-42", map[string]interface{}{
//	    "street": "55 University Ave",
//	    "city":   "Toronto",
//	}, messaging.ByName("address"), nil)
//	if messaging.IsValidationError(err) {
//	    // nothing was written
//	}
//
// # Consuming
//
// Consume fetches records and decodes them with Config.Workers goroutines:
//
//	wg := &sync.WaitGroup{}
//	for msg := range consumer.Consume(ctx, wg) {
//	    if err := msg.Err(); err != nil {
//	        log.Warn("undecodable message", err)
//	        _ = msg.CommitMsg()
//	        continue
//	    }
//	    handle(msg.SchemaID(), msg.Value())
//	    _ = msg.CommitMsg()
//	}
//	wg.Wait()
//
// # Tracing
//
// Publish copies the trace context of ctx into the record headers and
// Message.Context continues that trace on the consumer side.
//
// # Configuration
//
//	KAFKA_BROKERS=localhost:9092,localhost:9093
//	KAFKA_TOPIC=addresses
//	KAFKA_GROUP_ID=address-consumers
//	KAFKA_IS_CONSUMER=true
//	KAFKA_WORKERS=4
//
// TLS, SASL (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512) and producer compression
// (gzip, snappy, lz4, zstd) are configured through TLSConfig, SASLConfig and
// Config.CompressionCodec.
//
// All methods are safe for concurrent use.
package kafka
