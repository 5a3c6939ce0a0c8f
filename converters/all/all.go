// Package all registers every built-in converter. Import it for side
// effects from binaries that want the full format set:
//
//	import _ "pgconvert/converters/all"
package all

import (
	_ "pgconvert/converters/csv"
	_ "pgconvert/converters/excel"
	_ "pgconvert/converters/json"
	_ "pgconvert/converters/mongodb"
	_ "pgconvert/converters/sqldump"
	_ "pgconvert/converters/sqlite"
)
