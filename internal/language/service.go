package language

import (
	"fmt"
	"sync"

	"github.com/dshills/smartquotes/internal/config"
	"github.com/dshills/smartquotes/internal/config/notify"
	"github.com/dshills/smartquotes/internal/detect"
	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/quotes"
	"github.com/dshills/smartquotes/internal/settings"
	"github.com/dshills/smartquotes/internal/texroot"
)

// Document is an open document.
type Document interface {
	// FilePath returns the file of the document, or "" if it was never saved.
	FilePath() string

	// Settings returns the per-document settings store.
	Settings() settings.Store
}

// StatusFunc receives user-facing status messages.
type StatusFunc func(msg string)

// Options configures a Service. Zero fields select defaults.
type Options struct {
	Table    *quotes.Table
	Config   *config.Config
	Detector *detect.Detector
	Roots    texroot.Resolver
	Status   StatusFunc
	Logger   *logging.Logger

	// Aliases are appended after the configured alias rules, typically
	// from Lua scripts.
	Aliases []detect.Alias
}

// Service resolves and caches document languages.
type Service struct {
	table  *quotes.Table
	cfg    *config.Config
	roots  texroot.Resolver
	status StatusFunc
	logger *logging.Logger
	extra  []detect.Alias

	mu       sync.RWMutex
	detector *detect.Detector
	fixed    bool
	sub      *notify.Subscription
}

// NewService creates a Service.
//
// Without an explicit Detector the Service builds one from the
// configuration (use_ucs and aliases) and rebuilds it whenever either
// setting changes.
func NewService(opts Options) *Service {
	s := &Service{
		table:    opts.Table,
		cfg:      opts.Config,
		roots:    opts.Roots,
		status:   opts.Status,
		logger:   logging.OrNop(opts.Logger).WithComponent("language"),
		extra:    append([]detect.Alias(nil), opts.Aliases...),
		detector: opts.Detector,
		fixed:    opts.Detector != nil,
	}
	if s.table == nil {
		s.table = quotes.Default
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.roots == nil {
		s.roots = texroot.New(texroot.WithLogger(opts.Logger))
	}
	if s.status == nil {
		s.status = func(string) {}
	}
	if !s.fixed {
		s.detector = s.buildDetector()
		s.sub = s.cfg.Subscribe(func(ch notify.Change) {
			if !ch.Affects(config.KeyUseUCS) && !ch.Affects(config.KeyAliases) {
				return
			}
			d := s.buildDetector()
			s.mu.Lock()
			s.detector = d
			s.mu.Unlock()
		})
	}
	return s
}

// Close detaches the Service from configuration changes.
func (s *Service) Close() {
	s.sub.Unsubscribe()
}

func (s *Service) buildDetector() *detect.Detector {
	opts := []detect.Option{
		detect.WithLogger(s.logger),
		// Detection prefers wide glyphs unless use_ucs is explicitly off.
		detect.WithWideEncoding(func() bool { return s.cfg.UseUCS(true) }),
	}

	rules, err := s.cfg.Aliases()
	if err != nil {
		s.logger.Warn("ignoring aliases: %v", err)
	}
	aliases, err := detect.AliasesFromConfig(rules)
	if err != nil {
		s.logger.Warn("ignoring aliases: %v", err)
	} else {
		opts = append(opts, detect.WithExtraAliases(aliases...))
	}
	opts = append(opts, detect.WithExtraAliases(s.extra...))
	return detect.New(opts...)
}

// Detector returns the detector in use.
func (s *Service) Detector() *detect.Detector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector
}

// Table returns the quote table.
func (s *Service) Table() *quotes.Table {
	return s.table
}

func (s *Service) accessor(doc Document) *settings.Accessor {
	return settings.NewAccessor(doc.Settings(), s.cfg, s.table, settings.WithAccessorLogger(s.logger))
}

// Default returns the configured default language.
func (s *Service) Default() quotes.Language {
	acc := settings.NewAccessor(settings.NewMemoryStore(), s.cfg, s.table, settings.WithAccessorLogger(s.logger))
	return acc.DefaultLanguage()
}

// Current returns the cached language of doc.
func (s *Service) Current(doc Document) (quotes.Language, bool) {
	return s.accessor(doc).CurrentLanguage()
}

// SetCurrent caches lang for doc. Languages outside the quote table are
// rejected.
func (s *Service) SetCurrent(doc Document, lang quotes.Language) error {
	if !s.table.Has(lang) {
		return fmt.Errorf("%w: %q", ErrUnsupported, lang)
	}
	s.accessor(doc).SetCurrentLanguage(lang)
	s.logger.WithField("document", doc.FilePath()).Info("language set to %s", lang)
	return nil
}

// Detect runs the detector on the root document of path.
func (s *Service) Detect(path string) (quotes.Language, bool, error) {
	target := path
	if root, ok := s.roots.Root(path); ok {
		s.logger.WithField("root", root).Debug("using root document of %s", path)
		target = root
	}
	return s.Detector().DetectFile(target)
}

// Resolve detects the language of doc, caches it and returns it. The
// result is always a member of the quote table or the configured default.
func (s *Service) Resolve(doc Document) quotes.Language {
	s.status("Detecting Language...")
	acc := s.accessor(doc)
	log := s.logger.WithField("document", doc.FilePath())

	path := doc.FilePath()
	if path == "" {
		lang := acc.DefaultLanguage()
		s.status(fmt.Sprintf("Save the file to enable language detection. Set to default: '%s'", lang))
		acc.SetCurrentLanguage(lang)
		return lang
	}

	detected, ok, err := s.Detect(path)
	if err != nil {
		log.Warn("detection failed: %v", err)
	}

	var lang quotes.Language
	switch {
	case err != nil || !ok:
		lang = acc.DefaultLanguage()
		s.status(fmt.Sprintf("Could not detect language. Set to default: '%s'", lang))
	case !s.table.Has(detected):
		lang = s.recover(detected)
		if lang == "" {
			lang = acc.DefaultLanguage()
		}
		s.status(fmt.Sprintf("Language not supported: '%s' Set to fallback: '%s'", detected, lang))
	default:
		lang = detected
		s.status(fmt.Sprintf("Language detected: '%s'", lang))
	}

	log.Debug("resolved %s", lang)
	acc.SetCurrentLanguage(lang)
	return lang
}

// recover toggles the wide suffix of an unsupported language. It
// returns "" when neither variant is in the table.
func (s *Service) recover(lang quotes.Language) quotes.Language {
	if narrow := quotes.StripWide(lang); narrow != lang && s.table.Has(narrow) {
		return narrow
	}
	if wide := quotes.WithWide(lang); s.table.Has(wide) {
		return wide
	}
	return ""
}

// Language returns the cached language of doc, resolving it first when
// nothing is cached.
func (s *Service) Language(doc Document) quotes.Language {
	if lang, ok := s.Current(doc); ok {
		return lang
	}
	return s.Resolve(doc)
}
