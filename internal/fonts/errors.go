package fonts

import (
	"fmt"

	"pkt.systems/termpart/schema"
)

// FontNotFoundError reports a font with no exact match in the catalog.
type FontNotFoundError struct {
	Name string
}

func (e *FontNotFoundError) Error() string {
	return fmt.Sprintf("font %q not found", e.Name)
}

// Unwrap returns schema.ErrFontNotFound.
func (e *FontNotFoundError) Unwrap() error {
	return schema.ErrFontNotFound
}
