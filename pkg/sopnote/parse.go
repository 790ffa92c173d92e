package sopnote

import (
	"flag"
	"fmt"
)

// Parse parses command line arguments into the command to execute and the
// application configuration. Configuration defaults come from the
// environment; flags override them.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("sopnote", flag.ContinueOnError)

	var (
		apiURL       = flagSet.String("api-url", getEnv("SOPNOTE_API_URL", "http://localhost:8080"), "SOP backend base URL")
		cloudName    = flagSet.String("cloud-name", getEnv("SOPNOTE_CLOUD_NAME", ""), "Upload backend cloud name")
		uploadPreset = flagSet.String("upload-preset", getEnv("SOPNOTE_UPLOAD_PRESET", ""), "Upload backend unsigned preset")
		uploadAPI    = flagSet.String("upload-api-url", getEnv("SOPNOTE_UPLOAD_API_URL", ""), "Upload API root override (default: hosted service)")
		logPath      = flagSet.String("log", getEnv("SOPNOTE_LOG_PATH", ""), "Write structured logs to this file")
		html         = flagSet.Bool("html", false, "Render show output as HTML")
		addr         = flagSet.String("addr", ":8080", "Listen address for serve-fake")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remaining := flagSet.Args()
	if len(remaining) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: sopnote [flags] <command> [args]

Commands:
  list                        List all SOPs
  show <id|#hash>             Print one SOP's full tree (-html for an HTML page);
                              accepts a location hash such as "#/sop/<id>"
  create <name>               Create a new empty SOP
  edit <id> <ops...>          Apply scripted tree edits and save
  upload <id> <path> <files>  Upload files and attach them to the block at path
  delete <id>                 Delete a SOP
  export <file>               Write the whole collection to a JSON file
  import <file>               Replace the remote collection from a JSON file
  seed                        Load the backend's sample data
  serve-fake                  Run the in-process fake backend (-addr to bind)

Edit operations (paths are dotted indices: step, step.sub, step.sub.question):
  name <text> | add-step | add-sub <i> | add-q <i.j> | del <path>
  text <path> <value> | subtext <path> <value> | link <path> <value>
  rm-att <path> <index>

Examples:
  sopnote list
  sopnote show sop-1700000000000
  sopnote -html show sop-1700000000000 > sop.html
  sopnote create "Employee Onboarding"
  sopnote edit sop-1700000000000 add-step text 0 "Prepare accounts" add-sub 0
  sopnote upload sop-1700000000000 0 diagram.png manual.pdf
  sopnote export backup.json
  sopnote import backup.json
  sopnote -addr :9090 serve-fake`)
	}

	config := &Config{
		APIBase:       *apiURL,
		CloudName:     *cloudName,
		UploadPreset:  *uploadPreset,
		UploadAPIBase: *uploadAPI,
		LogPath:       *logPath,
	}

	arg := func(name string) (string, error) {
		if len(remaining) < 2 || remaining[1] == "" {
			return "", fmt.Errorf("%s requires an argument", name)
		}
		return remaining[1], nil
	}

	var cmd Command
	switch remaining[0] {
	case "list":
		cmd = &ListCommand{}
	case "show":
		id, err := arg("show <id>")
		if err != nil {
			return nil, nil, err
		}
		cmd = &ShowCommand{ID: id, HTML: *html}
	case "create":
		name, err := arg("create <name>")
		if err != nil {
			return nil, nil, err
		}
		cmd = &CreateCommand{SOPName: name}
	case "edit":
		id, err := arg("edit <id> <ops...>")
		if err != nil {
			return nil, nil, err
		}
		if len(remaining) < 3 {
			return nil, nil, fmt.Errorf("edit requires at least one operation")
		}
		cmd = &EditCommand{ID: id, Ops: remaining[2:]}
	case "upload":
		id, err := arg("upload <id> <path> <files...>")
		if err != nil {
			return nil, nil, err
		}
		if len(remaining) < 4 {
			return nil, nil, fmt.Errorf("upload requires a block path and at least one file")
		}
		cmd = &UploadCommand{ID: id, BlockPath: remaining[2], Files: remaining[3:]}
	case "delete":
		id, err := arg("delete <id>")
		if err != nil {
			return nil, nil, err
		}
		cmd = &DeleteCommand{ID: id}
	case "export":
		path, err := arg("export <file>")
		if err != nil {
			return nil, nil, err
		}
		cmd = &ExportCommand{Path: path}
	case "import":
		path, err := arg("import <file>")
		if err != nil {
			return nil, nil, err
		}
		cmd = &ImportCommand{Path: path}
	case "seed":
		cmd = &SeedCommand{}
	case "serve-fake":
		cmd = &ServeFakeCommand{Addr: *addr}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: list, show, create, edit, upload, delete, export, import, seed, serve-fake", remaining[0])
	}

	return cmd, config, nil
}
