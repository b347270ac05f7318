// Package quotes provides the smart quote commands.
//
// Actions:
//
//	quotes.autoDetectLanguage  re-detect the document language
//	quotes.setLanguage         choose the language (args: language, locale)
//	quotes.insert              insert quotes (args: quote_type, which_quote, language)
//
// Without a language argument, quotes.setLanguage shows every table
// entry with a usage example and persists the choice.
package quotes
