package wpblock

import "go.uber.org/zap"

// Option configures tokenizing and parsing.
type Option func(*config)

type config struct {
	ignored      []string
	historyLimit int
	cleanStale   bool
	logger       *zap.Logger
	treeName     string
}

const (
	defaultHistoryLimit = 50
	defaultTreeName     = "document"
)

func newConfig(opts []Option) config {
	cfg := config{
		historyLimit: defaultHistoryLimit,
		cleanStale:   true,
		treeName:     defaultTreeName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithIgnoredRules removes rules from the table by name. Unknown names are
// ignored.
func WithIgnoredRules(names ...string) Option {
	return func(cfg *config) {
		cfg.ignored = append(cfg.ignored, names...)
	}
}

// WithHistory sizes the tokenizer's operation log.
func WithHistory(limit int, cleanStaleOps bool) Option {
	return func(cfg *config) {
		cfg.historyLimit = limit
		cfg.cleanStale = cleanStaleOps
	}
}

// WithLogger sets the logger used for debug events. A nil logger disables
// logging.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTreeName names the tree built by Parse.
func WithTreeName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.treeName = name
		}
	}
}
