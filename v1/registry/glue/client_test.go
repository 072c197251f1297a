package glue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

const testVersionID = "12345678-1234-5678-1234-567812345678"

// fakeAPI records the last input of every call and returns canned responses.
type fakeAPI struct {
	getSchemaVersionIn      *awsglue.GetSchemaVersionInput
	getSchemaByDefinitionIn *awsglue.GetSchemaByDefinitionInput
	createSchemaIn          *awsglue.CreateSchemaInput
	getSchemaIn             *awsglue.GetSchemaInput

	definition string
	err        error
}

func (f *fakeAPI) GetSchemaVersion(_ context.Context, in *awsglue.GetSchemaVersionInput, _ ...func(*awsglue.Options)) (*awsglue.GetSchemaVersionOutput, error) {
	f.getSchemaVersionIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &awsglue.GetSchemaVersionOutput{
		SchemaVersionId:  in.SchemaVersionId,
		SchemaDefinition: aws.String(f.definition),
	}, nil
}

func (f *fakeAPI) GetSchemaByDefinition(_ context.Context, in *awsglue.GetSchemaByDefinitionInput, _ ...func(*awsglue.Options)) (*awsglue.GetSchemaByDefinitionOutput, error) {
	f.getSchemaByDefinitionIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &awsglue.GetSchemaByDefinitionOutput{SchemaVersionId: aws.String(testVersionID)}, nil
}

func (f *fakeAPI) CreateSchema(_ context.Context, in *awsglue.CreateSchemaInput, _ ...func(*awsglue.Options)) (*awsglue.CreateSchemaOutput, error) {
	f.createSchemaIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &awsglue.CreateSchemaOutput{SchemaVersionId: aws.String(testVersionID)}, nil
}

func (f *fakeAPI) GetSchema(_ context.Context, in *awsglue.GetSchemaInput, _ ...func(*awsglue.Options)) (*awsglue.GetSchemaOutput, error) {
	f.getSchemaIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &awsglue.GetSchemaOutput{
		SchemaName:          in.SchemaId.SchemaName,
		RegistryName:        in.SchemaId.RegistryName,
		SchemaArn:           aws.String("arn:aws:glue:eu-central-1:123456789012:schema/registry-name/address"),
		LatestSchemaVersion: aws.Int64(3),
		DataFormat:          types.DataFormatAvro,
		Compatibility:       types.CompatibilityBackward,
		SchemaStatus:        types.SchemaStatusAvailable,
	}, nil
}

func TestFetch(t *testing.T) {
	api := &fakeAPI{definition: `{"type":"string"}`}
	reg := NewRegistry(Config{RegistryName: "registry-name"}, api)

	definition, err := reg.Fetch(context.Background(), registry.MustParseSchemaID(testVersionID))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string"}`, definition)
	assert.Equal(t, testVersionID, aws.ToString(api.getSchemaVersionIn.SchemaVersionId))
}

func TestFetchByDefinitionPassesNameRegistryAndDefinition(t *testing.T) {
	api := &fakeAPI{}
	reg := NewRegistry(Config{RegistryName: "registry-name"}, api)

	id, err := reg.FetchByDefinition(context.Background(), "person", `{"type":"record"}`)
	require.NoError(t, err)
	assert.Equal(t, testVersionID, id.String())

	in := api.getSchemaByDefinitionIn
	require.NotNil(t, in)
	assert.Equal(t, "person", aws.ToString(in.SchemaId.SchemaName))
	assert.Equal(t, "registry-name", aws.ToString(in.SchemaId.RegistryName))
	assert.Equal(t, `{"type":"record"}`, aws.ToString(in.SchemaDefinition))
}

func TestRegisterUsesAvroAndBackwardCompatibility(t *testing.T) {
	api := &fakeAPI{}
	reg := NewRegistry(Config{RegistryName: "registry-name"}, api)

	id, err := reg.Register(context.Background(), "address", `{"type":"record"}`)
	require.NoError(t, err)
	assert.Equal(t, testVersionID, id.String())

	in := api.createSchemaIn
	require.NotNil(t, in)
	assert.Equal(t, "registry-name", aws.ToString(in.RegistryId.RegistryName))
	assert.Equal(t, "address", aws.ToString(in.SchemaName))
	assert.Equal(t, types.DataFormatAvro, in.DataFormat)
	assert.Equal(t, types.CompatibilityBackward, in.Compatibility)
}

func TestCheck(t *testing.T) {
	api := &fakeAPI{}
	reg := NewRegistry(Config{RegistryName: "registry-name"}, api)

	meta, err := reg.Check(context.Background(), "address", "")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "address", meta.Name)
	assert.Equal(t, int64(3), meta.LatestVersion)
	assert.Equal(t, "AVRO", meta.DataFormat)
}

func TestCheckReturnsNilWhenSchemaIsUnknown(t *testing.T) {
	api := &fakeAPI{err: &types.EntityNotFoundException{Message: aws.String("not found")}}
	reg := NewRegistry(Config{}, api)

	meta, err := reg.Check(context.Background(), "address", "")
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Nil(t, api.getSchemaIn.SchemaId.RegistryName, "empty registry name selects the default registry")
}

func TestNotFoundIsMapped(t *testing.T) {
	api := &fakeAPI{err: &types.EntityNotFoundException{Message: aws.String("not found")}}
	reg := NewRegistry(Config{}, api)

	_, err := reg.Fetch(context.Background(), registry.NewSchemaID())
	assert.True(t, registry.IsNotFound(err))

	var notFound *types.EntityNotFoundException
	assert.True(t, errors.As(err, &notFound), "original exception stays in the chain")
}

func TestOtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("throttled")
	reg := NewRegistry(Config{}, &fakeAPI{err: boom})

	_, err := reg.FetchByDefinition(context.Background(), "address", "{}")
	assert.ErrorIs(t, err, boom)
	assert.False(t, registry.IsNotFound(err))
}

func TestStaticRegistryRejectsWrites(t *testing.T) {
	api := &fakeAPI{definition: `{"type":"string"}`}
	reg := newStaticRegistry(Config{RegistryName: "registry-name"}, api)

	_, err := reg.Register(context.Background(), "address", "{}")
	assert.True(t, registry.IsUnsupportedOperation(err))
	assert.Nil(t, api.createSchemaIn)

	_, err = reg.Check(context.Background(), "address", "{}")
	assert.True(t, registry.IsUnsupportedOperation(err))
	assert.Nil(t, api.getSchemaIn)

	definition, err := reg.Fetch(context.Background(), registry.MustParseSchemaID(testVersionID))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string"}`, definition)
}

func TestNewStaticRegistryRequiresCredentials(t *testing.T) {
	_, err := NewStaticRegistry(context.Background(), StaticConfig{Config: Config{Region: "eu-central-1"}})
	assert.Error(t, err)
}
