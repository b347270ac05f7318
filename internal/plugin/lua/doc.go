// Package lua runs user scripts that extend the quote style table and
// the babel alias rules.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. They see a global "quotes" module:
//
//	quotes.define("spanish-ucs", {
//	    single = {"‹", "›"},
//	    double = {"«", "»"},
//	    locale = "es",
//	})
//	quotes.alias("castellano", "spanish")
//
//	if not quotes.has("german-chevron") then
//	    print("no chevron style")
//	end
//
// Pairs are either two-element arrays or tables with open and close
// fields. print writes to the logger.
//
// # Loading
//
// Load runs a list of scripts against a table and returns the aliases
// they declared:
//
//	ext, err := lua.Load(ctx, table, cfg.Scripts())
//	if err != nil {
//	    log.Warn("scripts: %v", err)
//	}
//	svc := language.NewService(language.Options{Table: table, Aliases: ext.Aliases})
//
// A failing script does not stop the others; its definitions up to the
// failure are kept.
package lua
