package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	wpblock "github.com/OVECJOE/wp-block-parser"
	"github.com/OVECJOE/wp-block-parser/internal/config"
	"github.com/OVECJOE/wp-block-parser/internal/logging"
	"github.com/OVECJOE/wp-block-parser/store"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"pkt.systems/version"
)

const (
	defaultWidth      = 80
	defaultConfigName = "wpblock.toml"
	inputTimeout      = 2 * time.Minute
)

// errUsage marks errors that exit with status 2.
var errUsage = errors.New("usage")

func init() {
	version.SetDefaultModule("github.com/OVECJOE/wp-block-parser")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	format      string
	query       string
	subtree     string
	ignore      []string
	width       int
	outPath     string
	storeDriver string
	storePath   string
	key         string
	logLevel    string
	logFile     string
	showVersion bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("wpblock", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "TOML config file (default ./"+defaultConfigName+" if present)")
	flags.StringVarP(&opts.format, "format", "f", "outline", "Output format: outline|json|yaml|markup|tokens")
	flags.StringVarP(&opts.query, "query", "q", "", "Only output blocks matching selector (key=value, .text, name)")
	flags.StringVarP(&opts.subtree, "subtree", "s", "", "Output the subtree built from blocks matching selector")
	flags.StringArrayVar(&opts.ignore, "ignore", nil, "Ignore a tokenizer rule by name (repeatable)")
	flags.IntVarP(&opts.width, "width", "w", 0, "Outline width override (0 uses terminal width if available)")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVar(&opts.storeDriver, "store", "file", "Store driver for --key: file|sqlite")
	flags.StringVar(&opts.storePath, "store-path", "", "Store directory (file) or database path (sqlite)")
	flags.StringVarP(&opts.key, "key", "k", "", "Also save the output in the store under key")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to a rotated file")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: wpblock [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, the document is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	cfg, err := loadConfig(flags, opts)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON, Console: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), inputTimeout)
	src, err := readInputs(ctx, flags.Args(), stdin)
	cancel()
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}

	var out bytes.Buffer
	if err := render(&out, src, cfg, opts, logger); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if _, err := writer.Write(out.Bytes()); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}

	if opts.key != "" {
		if err := save(cfg.Store, opts.key, cfg.Format, out.String()); err != nil {
			fmt.Fprintf(stderr, "store: %v\n", err)
			return 1
		}
		logger.Info("output stored", zap.String("key", opts.key), zap.String("driver", cfg.Store.Driver))
	}
	return 0
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(flags *pflag.FlagSet, opts options) (config.Config, error) {
	path, optional := opts.configPath, false
	if path == "" {
		path, optional = defaultConfigName, true
	} else {
		path = normalizePath(path)
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("ignore") {
		cfg.IgnoreRules = append(cfg.IgnoreRules, opts.ignore...)
	}
	if flags.Changed("store") {
		cfg.Store.Driver = opts.storeDriver
	}
	if flags.Changed("store-path") {
		cfg.Store.Path = opts.storePath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = normalizePath(opts.logFile)
	}
	return cfg, cfg.Validate()
}

func save(cfg config.Store, key, format, data string) error {
	s, err := store.Open(store.Config{Driver: cfg.Driver, Path: cfg.Path, CacheTTL: cfg.CacheTTL.Duration})
	if err != nil {
		return err
	}
	defer s.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Save(ctx, store.Document{Key: key, Format: format, Data: data, UpdatedAt: time.Now()})
}

func parserOptions(cfg config.Config, logger *zap.Logger) []wpblock.Option {
	return []wpblock.Option{
		wpblock.WithIgnoredRules(cfg.IgnoreRules...),
		wpblock.WithHistory(cfg.HistoryLimit, cfg.CleanStaleOps),
		wpblock.WithLogger(logger),
	}
}

func render(w io.Writer, src []byte, cfg config.Config, opts options, logger *zap.Logger) error {
	if err := wpblock.ValidateInput(src); err != nil {
		return err
	}
	popts := parserOptions(cfg, logger)
	if cfg.Format == "tokens" {
		if opts.query != "" || opts.subtree != "" {
			return fmt.Errorf("%w: --query and --subtree need a block format", errUsage)
		}
		for _, tok := range wpblock.Tokenize(string(src), popts...) {
			if _, err := fmt.Fprintf(w, "%d:%d\t%s\n", tok.Line, tok.Column, tok); err != nil {
				return err
			}
		}
		return nil
	}

	tree, err := wpblock.Parse(string(src), popts...)
	if err != nil {
		return err
	}
	if opts.subtree != "" {
		tree = tree.SubTree(opts.subtree)
		if tree == nil {
			return fmt.Errorf("no blocks match %q", opts.subtree)
		}
	}
	blocks := []*wpblock.Block{tree.Root()}
	if opts.query != "" {
		blocks, _ = tree.Query(opts.query)
	}
	width := resolveWidth(cfg.Width)
	for _, b := range blocks {
		if err := renderBlock(w, tree.Name(), b, cfg.Format, width); err != nil {
			return err
		}
	}
	return nil
}

func renderBlock(w io.Writer, name string, b *wpblock.Block, format string, width int) error {
	var (
		text string
		err  error
	)
	switch format {
	case "outline":
		return wpblock.Outline(w, wpblock.NewTree(name, b), width)
	case "json":
		text, err = wpblock.ToJSON(b)
	case "yaml":
		text, err = wpblock.ToYAML(b)
	case "markup":
		text, err = wpblock.Markup(b)
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(w, text)
	return err
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// readInputs concatenates the named inputs, or reads stdin when there are
// none. Inputs are local paths, file:// URLs or http(s) URLs.
func readInputs(ctx context.Context, args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(stdin)
	}
	var buf bytes.Buffer
	for _, raw := range args {
		data, err := readInput(ctx, raw)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func readInput(ctx context.Context, raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	path := raw
	if u, err := url.Parse(raw); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return wpblock.Fetch(ctx, nil, raw)
		case "file":
			path = u.Path
			if path == "" {
				path = u.Host
			}
		}
	}
	return os.ReadFile(normalizePath(path))
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
