package installer

import "fmt"

// PackageReadError is returned when the package could not be listed or a
// packaged file could not be opened or read.
type PackageReadError struct {
	Path string
	Err  error
}

func (e *PackageReadError) Error() string {
	return fmt.Sprintf("reading package %s: %v", e.Path, e.Err)
}

func (e *PackageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError is returned when writable storage could not be changed.
// Op is one of "mkdir", "create", "write", "remove" or "list".
type StorageWriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
