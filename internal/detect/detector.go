package detect

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Detector guesses document languages. A Detector is safe for
// concurrent use once constructed.
type Detector struct {
	wide     func() bool
	aliases  []Alias
	fullScan bool
	strict   bool
	logger   *logging.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithWideEncoding sets the function consulted at scan time to decide
// whether a UTF inputenc selects the "-ucs" variant. It is called once
// per encoding marker, so a changed preference takes effect on the next
// scan. The default always prefers wide glyphs.
func WithWideEncoding(fn func() bool) Option {
	return func(d *Detector) {
		d.wide = fn
	}
}

// WithAliases replaces the alias rules.
func WithAliases(aliases ...Alias) Option {
	return func(d *Detector) {
		d.aliases = append([]Alias(nil), aliases...)
	}
}

// WithExtraAliases appends rules after the current ones.
func WithExtraAliases(aliases ...Alias) Option {
	return func(d *Detector) {
		d.aliases = append(d.aliases, aliases...)
	}
}

// WithFullScan disables the early stop once both a language and an
// encoding marker have been seen. The scan still ends at
// \begin{document}.
func WithFullScan() Option {
	return func(d *Detector) {
		d.fullScan = true
	}
}

// WithStrict fails the scan on the first line that is not valid UTF-8
// instead of skipping it.
func WithStrict() Option {
	return func(d *Detector) {
		d.strict = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

// New creates a Detector with the default aliases.
func New(opts ...Option) *Detector {
	d := &Detector{aliases: DefaultAliases()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrNop(d.logger).WithComponent("detect")
	return d
}

// Aliases returns a copy of the alias rules.
func (d *Detector) Aliases() []Alias {
	return append([]Alias(nil), d.aliases...)
}

// DetectFile scans the file at path. The boolean is false when the scan
// was inconclusive.
func (d *Detector) DetectFile(path string) (quotes.Language, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("detect: %w", err)
	}
	defer f.Close()

	lang, ok, err := d.Detect(f)
	if err != nil {
		return "", false, fmt.Errorf("detect %s: %w", path, err)
	}
	d.logger.WithField("path", path).Debug("detected %q (conclusive=%t)", lang, ok)
	return lang, ok, nil
}

// Detect scans r. The boolean is false when the scan was inconclusive.
func (d *Detector) Detect(r io.Reader) (quotes.Language, bool, error) {
	sig, err := d.Scan(r)
	if err != nil {
		return "", false, err
	}
	lang, ok := d.Resolve(sig)
	return lang, ok, nil
}

// Scan collects the markers of r without interpreting them.
func (d *Detector) Scan(r io.Reader) (Signal, error) {
	var sig Signal
	br := bufio.NewReader(r)

	for {
		raw, readErr := br.ReadBytes('\n')
		if len(raw) > 0 {
			sig.Lines++
			if !utf8.Valid(raw) {
				if d.strict {
					return sig, fmt.Errorf("%w: line %d", ErrInvalidEncoding, sig.Lines)
				}
				d.logger.Debug("skipping undecodable line %d", sig.Lines)
			} else if d.scanLine(&sig, string(bytes.TrimRight(raw, "\r\n"))) {
				break
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return sig, fmt.Errorf("reading: %w", readErr)
		}
	}
	return sig, nil
}

// scanLine updates sig with the markers of one line and reports whether
// the scan should end.
func (d *Detector) scanLine(sig *Signal, line string) bool {
	if strings.Contains(line, rootMarker) {
		sig.RootMarkerSeen = true
	}

	encodingOnLine := encodingMarker.MatchString(line)
	if encodingOnLine && d.prefersWide() {
		sig.Encoding = EncodingWide
	}

	if m := babelMarker.FindStringSubmatchIndex(line); m != nil {
		start, end := m[2*babelLang], m[2*babelLang+1]
		if start >= 0 {
			sig.LanguageRaw = line[start:end]
			sig.HasLanguage = true
		} else {
			// \usepackage{babel} without options names no language.
			sig.LanguageRaw = ""
			sig.HasLanguage = false
		}
	} else if germanPackageMarker.MatchString(line) {
		sig.LanguageRaw = quotes.German
		sig.HasLanguage = true
	}

	if beginDocument.MatchString(line) {
		sig.RootMarkerSeen = true
		sig.EarlyStop = true
		return true
	}

	sig.EncodingMarkerSeen = sig.EncodingMarkerSeen || encodingOnLine
	return !d.fullScan && sig.HasLanguage && sig.EncodingMarkerSeen
}

func (d *Detector) prefersWide() bool {
	if d.wide == nil {
		return true
	}
	return d.wide()
}

// Resolve turns a scan signal into a language identifier. The boolean
// is false when the signal names no language and the file is not a root
// document, or when the captured option is empty and the encoding is not
// wide. An empty option under a wide encoding yields the bare suffix,
// which no table contains.
func (d *Detector) Resolve(sig Signal) (quotes.Language, bool) {
	suffix := ""
	if sig.Encoding == EncodingWide {
		suffix = quotes.UCSSuffix
	}

	if !sig.HasLanguage {
		if sig.RootMarkerSeen {
			return quotes.English + suffix, true
		}
		return "", false
	}
	if sig.LanguageRaw == "" {
		return suffix, suffix != ""
	}
	return Normalize(sig.LanguageRaw, d.aliases) + suffix, true
}
