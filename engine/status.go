package engine

import "fmt"

// ErrorCode classifies conversion pass failures.
type ErrorCode int

const (
	OK ErrorCode = iota

	// InitError: required inputs (config, data store, index) are missing.
	InitError

	// MapFileError: the map file is missing, unreadable or unparseable.
	MapFileError

	// CenterLaneError: a lane section does not have exactly one center lane.
	CenterLaneError

	// GeometryError: no plan-view segment covers a required arc length.
	GeometryError
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "ok"
	case InitError:
		return "init error"
	case MapFileError:
		return "map file error"
	case CenterLaneError:
		return "center lane error"
	case GeometryError:
		return "geometry error"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// Status is the outcome of a conversion pass. Once a stage records a non-OK
// code, every later stage becomes a no-op and the pass drains to completion.
type Status struct {
	Code    ErrorCode
	Message string
}

func (s Status) OK() bool {
	return s.Code == OK
}

// Err bridges the status to a plain error for callers outside the pipeline.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return fmt.Errorf("%s: %s", s.Code, s.Message)
}
