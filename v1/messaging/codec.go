package messaging

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/schemastore"
)

const instrumentationName = "github.com/Aleph-Alpha/glue-messaging/v1/messaging"

// SchemaRef selects the schema of a message. With ID set, the schema is
// fetched by id and cached. Otherwise the local definition of Name is looked
// up and its id is asked from the registry on every call. ID wins when both
// are set.
type SchemaRef struct {
	ID   string
	Name string
}

// ByID references a schema by its id text.
func ByID(id string) SchemaRef {
	return SchemaRef{ID: id}
}

// ByName references a schema by the name of its local definition.
func ByName(name string) SchemaRef {
	return SchemaRef{Name: name}
}

func (r SchemaRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// DecodedMessage is the result of Decode.
type DecodedMessage struct {
	SchemaID registry.SchemaID
	Message  interface{}
}

// Codec encodes messages into envelopes and decodes them back, resolving
// schemas through a registry and a local schema store. A Codec is safe for
// concurrent use.
type Codec struct {
	registry registry.Registry
	store    schemastore.Store
	cache    *SchemaCache
	parser   SchemaParser
	validate bool
	tracer   trace.Tracer
	logger   Logger
	observer observability.Observer
}

// Option configures a Codec.
type Option func(*Codec)

// WithSchemaCache shares cache between codecs.
func WithSchemaCache(cache *SchemaCache) Option {
	return func(c *Codec) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithSchemaParser replaces the Avro parser.
func WithSchemaParser(parser SchemaParser) Option {
	return func(c *Codec) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithTracerProvider sets the provider used for codec spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Codec) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithConfig applies cfg.
func WithConfig(cfg Config) Option {
	return func(c *Codec) {
		c.validate = !cfg.DisableValidation
	}
}

// NewCodec creates a codec. store may be nil, in which case references by
// name fail with ErrSchemaNotFound.
func NewCodec(reg registry.Registry, store schemastore.Store, opts ...Option) *Codec {
	c := &Codec{
		registry: reg,
		store:    store,
		cache:    NewSchemaCache(),
		parser:   AvroParser,
		validate: true,
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger attaches a logger and returns the codec for chaining.
func (c *Codec) WithLogger(logger Logger) *Codec {
	c.logger = logger
	return c
}

// WithObserver attaches an observer and returns the codec for chaining.
func (c *Codec) WithObserver(observer observability.Observer) *Codec {
	c.observer = observer
	return c
}

// Cache returns the codec's schema cache.
func (c *Codec) Cache() *SchemaCache {
	return c.cache
}

type encodeOptions struct {
	validate bool
}

// EncodeOption configures a single Encode call.
type EncodeOption func(*encodeOptions)

// WithoutValidation skips the validation pass.
func WithoutValidation() EncodeOption {
	return func(o *encodeOptions) { o.validate = false }
}

// WithValidation forces the validation pass.
func WithValidation() EncodeOption {
	return func(o *encodeOptions) { o.validate = true }
}

// Encode validates message against the referenced schema and frames its
// binary encoding. On failure no bytes are returned.
func (c *Codec) Encode(ctx context.Context, message interface{}, ref SchemaRef, opts ...EncodeOption) (data []byte, err error) {
	o := encodeOptions{validate: c.validate}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "messaging.Encode", trace.WithAttributes(
		attribute.String("schema.ref", ref.String()),
		attribute.Bool("messaging.validate", o.validate),
	))
	var id registry.SchemaID
	defer func() {
		c.finish(ctx, span, "encode", ref.String(), id, start, err, len(data))
	}()

	id, schema, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if o.validate {
		if violations := schema.Validate(message); len(violations) > 0 {
			return nil, &ValidationError{SchemaID: id, Violations: violations}
		}
	}

	payload, err := schema.Encode(nil, message)
	if err != nil {
		return nil, &ValidationError{SchemaID: id, Violations: []string{err.Error()}}
	}

	compressor := compressors[CompressionDisabled]
	payload, err = compressor.Compress(payload)
	if err != nil {
		return nil, err
	}
	return appendEnvelope(compressor.Flag(), id, payload), nil
}

// Decode parses an envelope, resolves its schema by id and decodes the
// payload. The message is not validated beyond what decoding requires.
func (c *Codec) Decode(ctx context.Context, data []byte) (msg *DecodedMessage, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "messaging.Decode")
	var id registry.SchemaID
	defer func() {
		c.finish(ctx, span, "decode", "", id, start, err, len(data))
	}()

	flag, id, payload, err := splitEnvelope(data)
	if err != nil {
		return nil, err
	}

	compressor, err := compressorFor(flag)
	if err != nil {
		return nil, err
	}
	payload, err = compressor.Decompress(payload)
	if err != nil {
		return nil, err
	}

	schema, err := c.resolveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	message, err := schema.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload does not decode with schema %s: %w", ErrMalformedEnvelope, id, err)
	}

	return &DecodedMessage{SchemaID: id, Message: message}, nil
}

// Register creates schema name in the registry. Nothing is cached.
func (c *Codec) Register(ctx context.Context, name, definition string) (id registry.SchemaID, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "messaging.Register", trace.WithAttributes(
		attribute.String("schema.name", name),
	))
	defer func() {
		c.finish(ctx, span, "register", name, id, start, err, len(definition))
	}()

	id, err = c.registry.Register(ctx, name, definition)
	if err != nil {
		if IsUnsupportedOperation(err) {
			return registry.NilSchemaID, err
		}
		return registry.NilSchemaID, &RegistryLookupError{Op: "register", Reference: name, Err: err}
	}

	c.logInfo(ctx, "Schema registered", map[string]interface{}{
		"schema_name": name,
		"schema_id":   id.String(),
	})
	return id, nil
}

// RegisterLocal registers the local definition of name.
func (c *Codec) RegisterLocal(ctx context.Context, name string) (registry.SchemaID, error) {
	definition, err := c.findLocal(ctx, name)
	if err != nil {
		return registry.NilSchemaID, err
	}
	return c.Register(ctx, name, definition)
}

// Check returns registry metadata about schema name, or nil if the registry
// does not know it.
func (c *Codec) Check(ctx context.Context, name, definition string) (md *registry.Metadata, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "messaging.Check", trace.WithAttributes(
		attribute.String("schema.name", name),
	))
	defer func() {
		c.finish(ctx, span, "check", name, registry.NilSchemaID, start, err, 0)
	}()

	md, err = c.registry.Check(ctx, name, definition)
	if err != nil {
		if IsUnsupportedOperation(err) {
			return nil, err
		}
		return nil, &RegistryLookupError{Op: "check", Reference: name, Err: err}
	}
	return md, nil
}
