// Package luart loads API modules written in Lua.
//
// A module source {module}.lua defines a global table named after the
// canonical handler type. The table is the class; if it has a new
// function, new() is called with no arguments to build the instance,
// otherwise the table itself is the instance. Operations are functions
// on the instance and are called method-style, obj:name().
//
//	Api_users = {}
//	Api_users.__index = Api_users
//
//	function Api_users.new()
//	    return setmetatable({ store = { { id = 1 } } }, Api_users)
//	end
//
//	function Api_users:_index()
//	    return { status = "ok" }
//	end
//
//	function Api_users:list()
//	    return self.store
//	end
//
// Every Load gets its own sandboxed Lua state: only the base, table,
// string and math libraries are opened, file loading functions are
// removed, and print is routed to the logger. The state is closed
// when the handler is closed, so handlers never share Lua state.
package luart
