package archive

import (
	"context"
	"fmt"
	"os"

	archivefs "catalogcore/internal/archive/fs"
	"catalogcore/internal/archive/memory"
	archives3 "catalogcore/internal/archive/s3"
)

// Open selects a Store implementation using environment variables.
//
//	CATALOGCORE_ARCHIVE_DRIVER: fs|s3|memory (default fs)
//	CATALOGCORE_ARCHIVE_FS_ROOT: directory root when driver=fs (default ./archive)
//	(S3 specific variables documented in s3/store.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("CATALOGCORE_ARCHIVE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return archivefs.New(os.Getenv("CATALOGCORE_ARCHIVE_FS_ROOT"))
	case DriverS3:
		return archives3.OpenFromEnv(ctx)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
