package converters

import "errors"

// ErrUnknownFormat is returned by Lookup for format names with no registered
// converter. It is a user input error and aborts the run.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrUnsupportedType marks a value kind with no mapping in the target
// format. Converters recover from it locally by emitting the text fallback
// and logging a warning; it never aborts a conversion on its own.
var ErrUnsupportedType = errors.New("unsupported value type")
