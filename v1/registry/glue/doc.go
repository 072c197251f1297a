// Package glue implements registry.Registry on top of the AWS Glue Schema Registry.
//
// Two clients are provided:
//
//   - Registry wraps a caller-built Glue client and supports every operation:
//     Fetch (GetSchemaVersion), FetchByDefinition (GetSchemaByDefinition),
//     Register (CreateSchema) and Check (GetSchema).
//   - StaticRegistry builds its own client from an access key pair and only
//     resolves schemas; Register and Check return registry.ErrUnsupportedOperation.
//
// Basic usage:
//
//	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("eu-central-1"))
//	if err != nil {
//	    return err
//	}
//	reg := glue.NewRegistry(glue.Config{RegistryName: "events"}, awsglue.NewFromConfig(awsCfg))
//
//	id, err := reg.FetchByDefinition(ctx, "address", definition)
//
// Read-only usage with raw credentials:
//
//	reg, err := glue.NewStaticRegistry(ctx, glue.StaticConfig{
//	    Config:          glue.Config{RegistryName: "events", Region: "eu-central-1"},
//	    AccessKeyID:     os.Getenv("GLUE_ACCESS_KEY_ID"),
//	    SecretAccessKey: os.Getenv("GLUE_SECRET_ACCESS_KEY"),
//	})
//
// Register creates schemas with DataFormat AVRO and BACKWARD compatibility
// unless Config says otherwise. Glue's EntityNotFoundException is reported as
// registry.ErrSchemaVersionNotFound; Check turns it into a nil result.
package glue
