package fonts

import (
	"strconv"
	"strings"
)

// xlfd holds the fields of an X logical font description used for matching.
type xlfd struct {
	name      string
	family    string
	pixelSize int
	spacing   string
}

// parseXLFD splits "-foundry-family-weight-slant-setwidth-style-pixels-points-resx-resy-spacing-avgwidth-registry-encoding".
func parseXLFD(name string) (xlfd, bool) {
	if !strings.HasPrefix(name, "-") {
		return xlfd{}, false
	}
	fields := strings.Split(name, "-")
	if len(fields) != 15 {
		return xlfd{}, false
	}
	out := xlfd{
		name:    name,
		family:  strings.ToLower(fields[2]),
		spacing: strings.ToLower(fields[11]),
	}
	if fields[7] != "" && fields[7] != "*" {
		size, err := strconv.Atoi(fields[7])
		if err != nil {
			return xlfd{}, false
		}
		out.pixelSize = size
	}
	return out, true
}

func (x xlfd) fixedPitch() bool {
	return x.spacing == "m" || x.spacing == "c"
}
