package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Dataset configuration errors
	DatasetsConfigError
	DatasetUnknownKindError

	// Locate errors
	LocateNotFoundError

	// Load errors
	LoadUnsupportedFormatError
	LoadMalformedSourceError
	LoadNoLayersError
	LoadLayerNotFoundError

	// Export errors
	ExportOutputExistsError
	ExportWriteError
	ExportGeometryError

	// Report errors
	ReportStatisticsError
	ReportOverviewError

	// Extract errors
	ExtractCancelledError
	ExtractAllDatasetsFailedError
)
