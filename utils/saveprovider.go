package utils

import "io"

// ResourceSource is the file a handler was loaded from.
type ResourceSource interface {
	Name() string
	Size() int64
	Save(in io.Reader) error
}
