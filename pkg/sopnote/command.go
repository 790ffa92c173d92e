package sopnote

// Command represents one discrete application operation with its specific
// arguments.
//
// The interface separates parsing from execution: Parse turns command line
// arguments into a Command value carrying everything the operation needs,
// and Main routes it to the matching method on [App]. Adding an operation
// means adding a command type here, a case in Parse, and a case in Main,
// without touching existing commands.
type Command interface {
	// Name returns the command identifier used for routing. It must match
	// the CLI sub-command name.
	Name() string
}

// ListCommand prints the cached collection, one line per SOP.
type ListCommand struct{}

func (c *ListCommand) Name() string { return "list" }

// ShowCommand renders a single SOP's full tree.
type ShowCommand struct {
	// ID of the SOP to render.
	ID string
	// HTML switches output from plain text to an HTML page with subtext
	// fields rendered as markdown.
	HTML bool
}

func (c *ShowCommand) Name() string { return "show" }

// CreateCommand creates a new empty SOP.
type CreateCommand struct {
	// SOPName is the display name of the new SOP. The backend rejects an
	// empty name; the resulting validation message is surfaced as-is.
	SOPName string
}

func (c *CreateCommand) Name() string { return "create" }

// EditCommand applies a sequence of tree edits to one SOP and saves the
// result wholesale. Operations are positional-path scripted edits (see the
// edit operation grammar); they apply in order against the live working
// copy, so indices always refer to the tree as the previous operations
// left it.
type EditCommand struct {
	ID string
	// Ops is the flat operation list, e.g.
	// ["add-step", "text", "0", "Prepare accounts"].
	Ops []string
}

func (c *EditCommand) Name() string { return "edit" }

// UploadCommand uploads local files and attaches the results to one
// content block of a SOP.
type UploadCommand struct {
	ID string
	// BlockPath addresses the receiving content block ("0", "0.1", or
	// "0.1.2").
	BlockPath string
	Files     []string
}

func (c *UploadCommand) Name() string { return "upload" }

// DeleteCommand removes a SOP by id.
type DeleteCommand struct {
	ID string
}

func (c *DeleteCommand) Name() string { return "delete" }

// ExportCommand writes the entire collection to a JSON file in the same
// array shape the import endpoint accepts.
type ExportCommand struct {
	// Path of the output file.
	Path string
}

func (c *ExportCommand) Name() string { return "export" }

// ImportCommand replaces the entire remote collection with the contents of
// a JSON file. Malformed JSON is rejected before any network call, so a
// bad file never disturbs remote state.
type ImportCommand struct {
	// Path of the input file.
	Path string
}

func (c *ImportCommand) Name() string { return "import" }

// SeedCommand asks the backend to load its sample data set.
type SeedCommand struct{}

func (c *SeedCommand) Name() string { return "seed" }

// ServeFakeCommand runs the in-process fake backend, for local development
// without a real deployment.
type ServeFakeCommand struct {
	// Addr is the listen address, for example ":8080".
	Addr string
}

func (c *ServeFakeCommand) Name() string { return "serve-fake" }
