// Package config holds the package-scope settings of smartquotes.
//
// Settings come from a single file (TOML, YAML, JSON or a Sublime Text
// .sublime-settings file) with SMARTQUOTES_* environment variables layered
// on top. Keys may carry the legacy "latex_smart_quotes_" prefix.
//
// Recognised keys:
//
//	default_language        language used when detection is inconclusive
//	use_ucs                 prefer the "-ucs" variant of the default language
//	insert_word_separators  add wide quote glyphs to word_separators
//	default_locale          BCP 47 tag used to pick a default language
//	aliases                 extra babel option → language rules
//	scripts                 Lua files defining quote styles and aliases
//	log_level               debug, info, warn or error
//
// A Config may be reloaded from disk at any time, either explicitly with
// Reload or automatically after Watch. Observers registered with Subscribe
// are notified after each reload and each Set.
package config
