package tags

import (
	"errors"
	"fmt"
)

// ErrPayloadShape is returned by SetLyrics when the payload kind does not
// fit the container or the requested mode.
var ErrPayloadShape = errors.New("lyrics payload does not match container or mode")

// ErrReadOnlyField is returned by SetTag for names the format cannot store
// as text.
var ErrReadOnlyField = errors.New("field cannot be written as text")

// UnsupportedFormatError is returned by Open for files whose extension is
// not a supported container.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s: unsupported format: no file extension", e.Path)
	}
	return fmt.Sprintf("%s: unsupported format %q", e.Path, e.Ext)
}

// IsUnsupported reports whether err is an *UnsupportedFormatError.
func IsUnsupported(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}
