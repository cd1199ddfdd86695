package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/hanpama/gqlshape/internal/codegen"
	"github.com/hanpama/gqlshape/internal/config"
	"github.com/hanpama/gqlshape/internal/eventbus"
	"github.com/hanpama/gqlshape/internal/fragments"
	"github.com/hanpama/gqlshape/internal/otel"
	"github.com/hanpama/gqlshape/internal/protoemit"
	"github.com/hanpama/gqlshape/internal/runid"
	"github.com/hanpama/gqlshape/internal/source"
	"github.com/hanpama/gqlshape/internal/tsemit"
)

const rootUsage = `gqlshape — result type generator for GraphQL operations and fragments

USAGE:
  gqlshape <command> [flags]

COMMANDS:
  generate         Generate result types for every operation and fragment
  order            Print fragments in emission order
  help             Show help for any command
`

const generateUsage = `generate FLAGS:
  -config <file>             YAML configuration file
  -schema <path>             Schema file or directory. Repeatable
  -documents <path>          Document file or directory. Repeatable
  -external <path>           Fragments usable but generated elsewhere. Repeatable
  -out <file>                Write output to file (default: stdout)
  -format <name>             typescript or proto (default: typescript)
  -package <name>            Proto package (proto format only)
  -compact                   Group concrete types with identical shapes
  -fragment-mode <mode>      inline, reference (alias: mask) or combine
  -v <level>                 Log verbosity (default: 0)
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: gqlshape)
  Flags override values from -config.
`

const orderUsage = `order FLAGS:
  -config <file>             YAML configuration file
  -schema <path>             Schema file or directory. Repeatable
  -documents <path>          Document file or directory. Repeatable
  -external <path>           Fragments usable but generated elsewhere. Repeatable
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlshape", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs)
	case "order":
		return cmdOrder(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Print(generateUsage)
	case "order":
		fmt.Print(orderUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, ",") }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// inputFlags are shared by every command that loads a project.
type inputFlags struct {
	configFile string
	schema     stringListFlag
	documents  stringListFlag
	external   stringListFlag
}

func (f *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fs.Var(&f.schema, "schema", "Schema file or directory")
	fs.Var(&f.documents, "documents", "Document file or directory")
	fs.Var(&f.external, "external", "External fragment file or directory")
}

// loadConfig reads -config, if any, and lets path flags replace the
// configured paths.
func (f *inputFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}
	if len(f.schema) > 0 {
		cfg.Schema = f.schema
	}
	if len(f.documents) > 0 {
		cfg.Documents = f.documents
	}
	if len(f.external) > 0 {
		cfg.ExternalDocuments = f.external
	}
	return cfg, nil
}

func loadProject(ctx context.Context, cfg *config.Config) (*source.Project, error) {
	discovery, err := source.NewFileSystemDiscovery(ctx, source.Roots{
		Schema:    cfg.Schema,
		Documents: cfg.Documents,
		External:  cfg.ExternalDocuments,
	})
	if err != nil {
		return nil, err
	}
	return source.Load(ctx, discovery)
}

func cmdGenerate(args []string) error {
	var in inputFlags
	outFile := ""
	format := ""
	pkg := ""
	compact := false
	fragmentMode := ""
	verbosity := 0
	otelEndpoint := ""
	otelService := "gqlshape"

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	in.register(fs)
	fs.StringVar(&outFile, "out", outFile, "Write output to file")
	fs.StringVar(&format, "format", format, "Output format")
	fs.StringVar(&pkg, "package", pkg, "Proto package")
	fs.BoolVar(&compact, "compact", compact, "Group identical shapes")
	fs.StringVar(&fragmentMode, "fragment-mode", fragmentMode, "Fragment mode")
	fs.IntVar(&verbosity, "v", verbosity, "Log verbosity")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, generateUsage)
		return err
	}

	cfg, err := in.loadConfig()
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Path = outFile
		case "format":
			cfg.Output.Format = format
		case "package":
			cfg.Output.Package = pkg
		case "compact":
			cfg.Compact = compact
		case "fragment-mode":
			cfg.FragmentMode = fragmentMode
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.Schema) == 0 {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("-schema is required")
	}

	stdr.SetVerbosity(verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	ctx := context.Background()
	bus := eventbus.New()
	shutdown, err := otel.Setup(ctx, bus, otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx, rid := runid.NewContext(ctx)
	logger = logger.WithValues("run", rid)

	project, err := loadProject(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	gen := codegen.New(project.Schema, project.Fragments, cfg.SelectionOptions(),
		codegen.WithLogger(logger),
		codegen.WithEventBus(bus),
		codegen.WithNaming(codegen.Naming{
			DedupeOperationSuffix: cfg.Naming.DedupeOperationSuffix,
			FragmentSuffix:        cfg.Naming.FragmentSuffix,
		}))
	out, err := gen.Generate(ctx, project.Operations)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	text, err := render(project, out, cfg)
	if err != nil {
		return err
	}
	return writeOutput(logger, cfg.Output.Path, text)
}

func render(project *source.Project, out *codegen.Output, cfg *config.Config) (string, error) {
	switch cfg.Output.Format {
	case config.FormatProto:
		path := "gqlshape.proto"
		if cfg.Output.Path != "" {
			path = filepath.Base(cfg.Output.Path)
		}
		fd, err := protoemit.Build(project.Schema, out, protoemit.Options{
			Package: cfg.Output.Package,
			Path:    path,
			Scalars: cfg.Scalars,
		})
		if err != nil {
			return "", fmt.Errorf("build proto: %w", err)
		}
		var buf bytes.Buffer
		if err := protoemit.Render(fd, &buf); err != nil {
			return "", fmt.Errorf("render proto: %w", err)
		}
		return buf.String(), nil
	}
	return tsemit.Render(project.Schema, out, tsemit.Options{Scalars: cfg.Scalars}), nil
}

func writeOutput(logger logr.Logger, path, text string) error {
	if path == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return err
	}
	logger.V(1).Info("wrote output", "path", path, "bytes", len(text))
	return nil
}

func cmdOrder(args []string) error {
	var in inputFlags
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, orderUsage)
		return err
	}
	cfg, err := in.loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Schema) == 0 {
		fmt.Fprint(os.Stderr, orderUsage)
		return fmt.Errorf("-schema is required")
	}

	ctx := context.Background()
	project, err := loadProject(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	graph := fragments.NewGraph(project.Fragments)
	if err := graph.FindCycle(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	for _, f := range graph.Order() {
		line := f.Name
		if deps := graph.DependsOn(f.Name); len(deps) > 0 {
			line += " <- " + strings.Join(deps, ", ")
		}
		if f.External {
			line += " (external)"
		}
		fmt.Println(line)
	}
	return nil
}
