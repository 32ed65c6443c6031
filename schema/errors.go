package schema

import "errors"

var (
	// ErrFontNotFound indicates the requested font has no exact match.
	ErrFontNotFound = errors.New("font not found")
	// ErrInvalidFont indicates a font selector or descriptor is malformed.
	ErrInvalidFont = errors.New("invalid font")
	// ErrSchemaNotFound indicates no color schema is loaded for a lookup.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrInvalidSchema indicates a schema file could not be parsed.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidBellMode indicates a bell mode outside the known set.
	ErrInvalidBellMode = errors.New("invalid bell mode")
	// ErrInvalidScrollbar indicates a scrollbar position outside the known set.
	ErrInvalidScrollbar = errors.New("invalid scrollbar position")
	// ErrInvalidLineSpacing indicates line spacing outside 0..MaxLineSpacing.
	ErrInvalidLineSpacing = errors.New("invalid line spacing")
	// ErrInvalidHistorySize indicates a negative history size.
	ErrInvalidHistorySize = errors.New("invalid history size")
	// ErrControllerDestroyed indicates the controller has already been torn down.
	ErrControllerDestroyed = errors.New("controller destroyed")
	// ErrSessionGone indicates the session has already been released.
	ErrSessionGone = errors.New("session gone")
	// ErrEngineRequired indicates no terminal emulation engine was supplied.
	ErrEngineRequired = errors.New("terminal engine is required")
)
