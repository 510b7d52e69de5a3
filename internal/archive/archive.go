// Package archive re-exports the statefile archive abstractions and selects
// a backend at runtime. An archive is a flat key-addressed object store
// holding member statefile documents; archived members stay reachable
// through the blob locator even when their original directory is gone.
package archive

import (
	"catalogcore/internal/archive/core"
)

type (
	// Driver identifies an archive backend driver.
	Driver = core.Driver
	// Info describes stored object metadata.
	Info = core.Info
	// Store is the interface for archive backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)
