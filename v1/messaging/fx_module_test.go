package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/schemastore"
)

func TestFXModuleProvidesCodec(t *testing.T) {
	reg := registry.NewInMemory("test")
	id := registry.MustParseSchemaID(addressID)
	reg.Put("address", id, addressSchema)
	obs := &recordingObserver{}

	var codec *Codec
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() registry.Registry { return reg },
			func() schemastore.Store { return mapStore{"address": addressSchema} },
			func() observability.Observer { return obs },
		),
		fx.Populate(&codec),
	)
	app.RequireStart()
	defer app.RequireStop()

	data, err := codec.Encode(context.Background(), addressMessage(), ByName("address"))
	require.NoError(t, err)

	decoded, err := codec.Decode(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, id, decoded.SchemaID)
	assert.Len(t, obs.Operations(), 2)
}
