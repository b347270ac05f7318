package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/smartquotes/internal/logging"
)

// blockedGlobals load code from outside the script or reach the module
// system.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// installSandbox strips the base library down and routes print to the
// logger.
func installSandbox(L *lua.LState, logger *logging.Logger) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}
