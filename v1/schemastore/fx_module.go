package schemastore

import "go.uber.org/fx"

// Config selects the directory of the file-backed store.
type Config struct {
	// Path is the root directory of the .avsc files. Default: ./schemas
	Path string `yaml:"path" envconfig:"SCHEMASTORE_PATH"`
}

// FXModule provides a file-backed Store.
//
// Usage:
//
//	app := fx.New(
//	    schemastore.FXModule,
//	    fx.Supply(schemastore.Config{Path: "/etc/app/schemas"}),
//	)
var FXModule = fx.Module("schemastore",
	fx.Provide(NewFileStoreWithDI),
)

// NewFileStoreWithDI creates the file store for the fx container.
func NewFileStoreWithDI(cfg Config) Store {
	return NewFileStore(cfg.Path)
}
