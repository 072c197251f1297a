// Package rabbit publishes and consumes envelope-encoded messages over
// RabbitMQ.
//
// Messages are encoded and decoded through a *messaging.Codec, so every body
// on the wire is the 18-byte envelope header followed by the Avro payload.
// The package follows the "accept interfaces, return structs" pattern:
// NewClient returns *RabbitClient, which implements Client, and consumed
// deliveries are exposed as Message.
//
// Core Features:
//   - Automatic reconnection with topology re-declaration (RetryConnection)
//   - Persistent publishing with publisher confirms
//   - Consumers that survive reconnects and decode each delivery
//   - Dead letter queue support
//   - Trace context propagation via message headers
//   - Optional observer hooks and context-aware logging
//
// # Direct Usage (Without FX)
//
//	client, err := rabbit.NewClient(rabbit.Config{
//		Connection: rabbit.Connection{
//			Host:     "localhost",
//			Port:     5672,
//			User:     "guest",
//			Password: "guest",
//		},
//		Channel: rabbit.Channel{
//			ExchangeName: "people",
//			ExchangeType: "direct",
//			RoutingKey:   "person.created",
//			QueueName:    "people",
//			IsConsumer:   true,
//		},
//		DeadLetter: rabbit.DeadLetter{
//			ExchangeName: "people-dlx",
//			QueueName:    "people-dlq",
//			RoutingKey:   "person.failed",
//			Ttl:          3600,
//		},
//	}, codec)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//	go client.RetryConnection()
//
// Publishing:
//
//	err = client.Publish(ctx, person, messaging.ByName("person"), nil)
//	if messaging.IsValidationError(err) {
//		// nothing was sent
//	}
//
// Consuming:
//
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//		if msg.Err() != nil {
//			_ = msg.NackMsg(false) // dead-lettered
//			continue
//		}
//		handle(msg.Context(), msg.Value())
//		_ = msg.AckMsg()
//	}
//	wg.Wait()
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		messaging.FXModule,
//		rabbit.FXModule,
//		fx.Supply(rabbitConfig),
//	)
//
// # Errors
//
// TranslateError maps AMQP reply codes to the package sentinels
// (ErrAccessDenied, ErrNotFound, ErrPrecondition and others). Publish returns
// ErrMessageNacked when the broker rejects a message and ErrShutdown after
// GracefulShutdown.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package rabbit
