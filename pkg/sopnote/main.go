package sopnote

import (
	"context"
	"fmt"
)

// Main is the application entry point. It parses args, builds the app, and
// executes the parsed command. Callable directly from tests, which is why
// it takes a context and returns an error instead of exiting.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	return app.Execute(ctx, cmd)
}

// Execute routes a parsed command to its handler.
func (a *App) Execute(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case *ListCommand:
		return a.List(ctx)
	case *ShowCommand:
		return a.Show(ctx, c.ID, c.HTML)
	case *CreateCommand:
		return a.Create(ctx, c.SOPName)
	case *EditCommand:
		return a.Edit(ctx, c.ID, c.Ops)
	case *UploadCommand:
		return a.Upload(ctx, c.ID, c.BlockPath, c.Files)
	case *DeleteCommand:
		return a.Delete(ctx, c.ID)
	case *ExportCommand:
		return a.Export(ctx, c.Path)
	case *ImportCommand:
		return a.Import(ctx, c.Path)
	case *SeedCommand:
		return a.Seed(ctx)
	case *ServeFakeCommand:
		return a.ServeFake(ctx, c.Addr)
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}
