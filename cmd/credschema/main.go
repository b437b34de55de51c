// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

// credschema converts credential JSON Schemas to editable field lists and back.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/credschema"
)

// outputFormatYAML selects YAML field document output.
const outputFormatYAML = "yaml"

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/credschema"
	_buildTime string
)

// errNotNormalized is returned by normalize --check when output differs from input.
var errNotNormalized = errors.New("schema is not normalized")

// cliOptions describes credschema CLI flags and subcommands.
type cliOptions struct {
	Version   versionCommand   `command:"version" description:"Print version information"`
	Parse     parseCommand     `command:"parse" description:"Convert credential schema to field document"`
	Generate  generateCommand  `command:"generate" description:"Convert field document to credential schema"`
	Normalize normalizeCommand `command:"normalize" description:"Round-trip schema through field list"`
	Toggle    toggleCommand    `command:"toggle" description:"Apply limitDisclosure flag to every field"`
	Example   exampleCommand   `command:"example" description:"Generate sample credential payload"`
	Describe  describeCommand  `command:"describe" description:"Render markdown field table"`
	Template  templateCommand  `command:"template" description:"Print built-in markdown template"`
}

// engineFlags groups flags shared by every schema command.
type engineFlags struct {
	ConfigPath       string `short:"c" long:"config" description:"Path to YAML config file"`
	Format           string `short:"F" long:"format" description:"Credential format discriminator (for example: jwt, mso_mdoc)"`
	LimitDisclosure  string `short:"L" long:"limit-disclosure" description:"Ambient limitDisclosure flag" optional:"yes" optional-value:"true" choice:"true" choice:"false"`
	Policy           string `short:"P" long:"policy" description:"limitDisclosure policy" choice:"cascade" choice:"format" choice:"label"`
	KeepRootMetadata bool   `short:"k" long:"keep-root-metadata" description:"Keep root $schema, title and $defs in generated schema"`
	Verbose          bool   `short:"v" long:"verbose" description:"Log parser diagnostics to stderr"`
}

// ioArgs are positional input and output paths.
type ioArgs struct {
	Input  string `positional-arg-name:"input" description:"Input file path (optional; stdin when omitted)"`
	Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
}

// parseCommand converts schema to field document.
type parseCommand struct {
	runner       *cliRunner
	Args         ioArgs      `positional-args:"yes"`
	Engine       engineFlags `group:"Engine"`
	OutputFormat string      `short:"o" long:"output-format" description:"Field document encoding" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs parse subcommand.
func (command *parseCommand) Execute(_ []string) error {
	return command.runner.runParse(command.Engine, command.OutputFormat, command.Args)
}

// generateCommand converts field document to schema.
type generateCommand struct {
	runner *cliRunner
	Args   ioArgs      `positional-args:"yes"`
	Engine engineFlags `group:"Engine"`
}

// Execute runs generate subcommand.
func (command *generateCommand) Execute(_ []string) error {
	return command.runner.runGenerate(command.Engine, command.Args)
}

// normalizeCommand round-trips schema through field list.
type normalizeCommand struct {
	runner *cliRunner
	Args   ioArgs      `positional-args:"yes"`
	Engine engineFlags `group:"Engine"`
	Check  bool        `long:"check" description:"Exit with error when input is not normalized; write nothing"`
}

// Execute runs normalize subcommand.
func (command *normalizeCommand) Execute(_ []string) error {
	return command.runner.runNormalize(command.Engine, command.Check, command.Args)
}

// toggleCommand applies limitDisclosure flag through the selected policy.
type toggleCommand struct {
	runner *cliRunner
	Args   ioArgs      `positional-args:"yes"`
	Engine engineFlags `group:"Engine"`
}

// Execute runs toggle subcommand.
func (command *toggleCommand) Execute(_ []string) error {
	return command.runner.runToggle(command.Engine, command.Args)
}

// exampleCommand builds sample payload from schema fields.
type exampleCommand struct {
	runner        *cliRunner
	Args          ioArgs      `positional-args:"yes"`
	Engine        engineFlags `group:"Engine"`
	Mode          string      `short:"m" long:"mode" description:"Field coverage" choice:"all" choice:"required" default:"all"`
	ExampleFormat string      `short:"e" long:"example-format" description:"Payload encoding" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs example subcommand.
func (command *exampleCommand) Execute(_ []string) error {
	return command.runner.runExample(command.Engine, command.Mode, command.ExampleFormat, command.Args)
}

// describeCommand renders markdown field summary.
type describeCommand struct {
	runner       *cliRunner
	Args         ioArgs      `positional-args:"yes"`
	Engine       engineFlags `group:"Engine"`
	TemplateName string      `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"table"`
	TemplatePath string      `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	Title        string      `short:"T" long:"title" description:"Markdown document title" default:"credential schema fields"`
	WrapWidth    int         `short:"w" long:"wrap" description:"Wrap width for list template descriptions" default:"80"`
	ExampleMode  string      `long:"example" description:"Embed example payload block" choice:"all" choice:"required"`
}

// Execute runs describe subcommand.
func (command *describeCommand) Execute(_ []string) error {
	return command.runner.runDescribe(command.Engine, *command, command.Args)
}

// templateCommand prints built-in markdown template for customization.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"table"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	return command.runner.printVersionInfo()
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "credschema"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runParse writes field document of input schema.
func (runner *cliRunner) runParse(engine engineFlags, outputFormat string, args ioArgs) error {
	editor, _, err := runner.loadEditor(engine, args.Input)
	if err != nil {
		return err
	}

	var data []byte
	switch outputFormat {
	case outputFormatYAML:
		data, err = credschema.MarshalFieldsYAML(editor.Fields())
	default:
		data, err = credschema.MarshalFields(editor.Fields())
	}

	if err != nil {
		return fmt.Errorf("encode field document: %w", err)
	}

	return runner.writeOutput(args.Output, data, "field document")
}

// runGenerate writes schema generated from input field document.
func (runner *cliRunner) runGenerate(engine engineFlags, args ioArgs) error {
	options, err := runner.engineOptions(engine)
	if err != nil {
		return err
	}

	data, _, err := runner.readInput(args.Input)
	if err != nil {
		return fmt.Errorf("read field document: %w", err)
	}

	fields, err := decodeFieldDocument(data)
	if err != nil {
		return err
	}

	schema, err := credschema.EncodeKeywords(credschema.GenerateWithOptions(fields, nil, options))
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	return runner.writeOutput(args.Output, schema, "schema")
}

// runNormalize writes schema after parse and generate round-trip.
func (runner *cliRunner) runNormalize(engine engineFlags, check bool, args ioArgs) error {
	editor, input, err := runner.loadEditor(engine, args.Input)
	if err != nil {
		return err
	}

	if check {
		if !bytes.Equal(input, editor.Schema()) {
			return fmt.Errorf("%w: %s", errNotNormalized, inputName(args.Input))
		}

		return nil
	}

	return runner.writeOutput(args.Output, editor.Schema(), "schema")
}

// runToggle applies explicit flag value or flips the flag found in input:
// on when every limitDisclosure in input text is true, off otherwise.
func (runner *cliRunner) runToggle(engine engineFlags, args ioArgs) error {
	editor, input, err := runner.loadEditor(engine, args.Input)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(engine)
	if err != nil {
		return err
	}

	target := settings.LimitDisclosure
	if !settings.LimitDisclosureSet {
		schema, err := credschema.DecodeKeywords(input)
		if err != nil {
			return fmt.Errorf("scan limitDisclosure: %w", err)
		}

		_, allTrue := credschema.ScanDisclosure(schema)
		target = !allTrue
	}

	if err := editor.SetLimitDisclosure(target); err != nil {
		return fmt.Errorf("apply limitDisclosure: %w", err)
	}

	return runner.writeOutput(args.Output, editor.Schema(), "schema")
}

// runExample writes sample payload built from input schema.
func (runner *cliRunner) runExample(engine engineFlags, mode, format string, args ioArgs) error {
	editor, _, err := runner.loadEditor(engine, args.Input)
	if err != nil {
		return err
	}

	data, err := credschema.GenerateExample(
		editor.Fields(),
		editor.Memo(),
		credschema.ExampleMode(mode),
		credschema.ExampleFormat(format),
	)
	if err != nil {
		return fmt.Errorf("generate example: %w", err)
	}

	return runner.writeOutput(args.Output, data, "example")
}

// runDescribe writes markdown field summary of input schema.
func (runner *cliRunner) runDescribe(engine engineFlags, command describeCommand, args ioArgs) error {
	options, err := runner.engineOptions(engine)
	if err != nil {
		return err
	}

	editor, _, err := runner.loadEditor(engine, args.Input)
	if err != nil {
		return err
	}

	renderOptions := credschema.RenderOptions{
		Policy:       options.Policy,
		Context:      editor.Context(),
		Title:        command.Title,
		SourcePath:   inputName(args.Input),
		TemplateName: command.TemplateName,
		WrapWidth:    command.WrapWidth,
		ExampleMode:  credschema.ExampleMode(command.ExampleMode),
	}

	if command.TemplatePath != "" {
		customTemplate, err := os.ReadFile(command.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", command.TemplatePath, err)
		}

		renderOptions.TemplateText = string(customTemplate)
	}

	rendered, err := credschema.RenderMarkdown(editor.Fields(), editor.Memo(), renderOptions)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	return runner.writeOutput(args.Output, []byte(rendered), "markdown")
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	text, err := credschema.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, []byte(text), "template")
}

// loadEditor reads input schema into a new editor session and reports schema warnings.
func (runner *cliRunner) loadEditor(engine engineFlags, inputPath string) (*credschema.Editor, []byte, error) {
	options, err := runner.engineOptions(engine)
	if err != nil {
		return nil, nil, err
	}

	input, _, err := runner.readInput(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema input: %w", err)
	}

	editor, err := credschema.NewEditor(options)
	if err != nil {
		return nil, nil, fmt.Errorf("create editor: %w", err)
	}

	if _, err := editor.Load(input); err != nil {
		return nil, nil, fmt.Errorf("load schema %s: %w", inputName(inputPath), err)
	}

	runner.warnSchema(editor)
	return editor, input, nil
}

// warnSchema writes draft and dangling reference warnings to stderr.
func (runner *cliRunner) warnSchema(editor *credschema.Editor) {
	memo := editor.Memo()
	draftURI := memo.SchemaURI()
	draft := credschema.DetectDraft(draftURI)
	if draftURI == "" {
		_, _ = fmt.Fprintln(runner.stderr, "warning: schema has no $schema value; draft support is unknown")
	} else if !draft.Supported {
		_, _ = fmt.Fprintf(runner.stderr, "warning: unsupported $schema value %q\n", draftURI)
	}

	for _, ref := range credschema.DanglingReferences(editor.Fields(), memo) {
		_, _ = fmt.Fprintf(runner.stderr, "warning: unresolved definition reference %q\n", ref)
	}
}

// engineOptions resolves config file and flags into library options.
func (runner *cliRunner) engineOptions(engine engineFlags) (credschema.Options, error) {
	settings, err := resolveSettings(engine)
	if err != nil {
		return credschema.Options{}, err
	}

	policy, err := credschema.PolicyByName(settings.Policy)
	if err != nil {
		return credschema.Options{}, err
	}

	return credschema.Options{
		Policy: policy,
		Logger: newLogger(runner.stderr, engine.Verbose),
		Context: credschema.Context{
			Format:          settings.Format,
			LimitDisclosure: settings.LimitDisclosure,
		},
		KeepRootMetadata: settings.KeepRootMetadata,
	}, nil
}

// newLogger returns stderr text logger without timestamps.
func newLogger(output io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return attr
		},
	}))
}

// decodeFieldDocument decodes JSON field document or falls back to YAML.
func decodeFieldDocument(data []byte) ([]credschema.Field, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		return credschema.UnmarshalFields(trimmed)
	}

	return credschema.UnmarshalFieldsYAML(data)
}

// readInput reads input from file path or stdin and returns source marker.
func (runner *cliRunner) readInput(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read file %q: %w", path, err)
		}

		return data, path, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", errors.New("read stdin: empty input")
	}

	return data, "(stdin)", nil
}

// writeOutput writes data to file path or stdout.
func (runner *cliRunner) writeOutput(path string, data []byte, what string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, path, err)
	}

	return nil
}

// inputName returns display name for input path.
func inputName(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "(stdin)"
	}

	return path
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Parse.runner = runner
	options.Generate.runner = runner
	options.Normalize.runner = runner
	options.Toggle.runner = runner
	options.Example.runner = runner
	options.Describe.runner = runner
	options.Template.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"parse": strings.TrimSpace(fmt.Sprintf(`
Convert credential JSON Schema into an ordered field document.
Reads schema from file argument or stdin; writes fields to file argument or stdout.

Examples:
> $ %s parse schema.json > fields.json
> $ cat schema.json | %s parse -F mso_mdoc -o yaml > fields.yaml
`, programName, programName)),
		"generate": strings.TrimSpace(fmt.Sprintf(`
Build credential JSON Schema from a field document (JSON or YAML).

Examples:
> $ %s generate fields.json > schema.json
> $ %s generate -F jwt fields.yaml schema.json
`, programName, programName)),
		"normalize": strings.TrimSpace(fmt.Sprintf(`
Round-trip schema through the field list and write canonical output.
With --check nothing is written and exit code is 1 when input differs.

Examples:
> $ %s normalize schema.json schema.json
> $ %s normalize --check schema.json
`, programName, programName)),
		"toggle": strings.TrimSpace(fmt.Sprintf(`
Apply limitDisclosure through the selected policy.
Without --limit-disclosure the current ambient flag is flipped.

Examples:
> $ %s toggle -P cascade -L schema.json
> $ %s toggle -P cascade --limit-disclosure=false schema.json
`, programName, programName)),
		"describe": strings.TrimSpace(fmt.Sprintf(`
Render markdown summary of schema fields with a built-in or custom template.
Custom templates receive the same view model as built-in ones; print a
built-in template with the template command to start from.

Examples:
> $ %s describe schema.json > FIELDS.md
> $ %s template -t list fields.gotmpl
> $ %s describe -f fields.gotmpl --example required schema.json FIELDS.md
`, programName, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build metadata to stdout.
func (runner *cliRunner) printVersionInfo() error {
	_, err := fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, runner.programName, Version, Commit, BuildTime)
	return err
}
