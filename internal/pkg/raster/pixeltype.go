package raster

import "fmt"

// PixelType identifies the storage type of a band, using PostGIS names.
type PixelType string

const (
	PT8BSI  PixelType = "8BSI"
	PT8BUI  PixelType = "8BUI"
	PT16BSI PixelType = "16BSI"
	PT16BUI PixelType = "16BUI"
	PT32BSI PixelType = "32BSI"
	PT32BUI PixelType = "32BUI"
	PT32BF  PixelType = "32BF"
	PT64BF  PixelType = "64BF"
)

// ParsePixelType validates a catalog pixel-type name.
func ParsePixelType(s string) (PixelType, error) {
	switch PixelType(s) {
	case PT8BSI, PT8BUI, PT16BSI, PT16BUI, PT32BSI, PT32BUI, PT32BF, PT64BF:
		return PixelType(s), nil
	}
	return "", fmt.Errorf("unsupported pixel type %q", s)
}

// Size returns the storage width of the type in bytes.
func (t PixelType) Size() int {
	switch t {
	case PT8BSI, PT8BUI:
		return 1
	case PT16BSI, PT16BUI:
		return 2
	case PT32BSI, PT32BUI, PT32BF:
		return 4
	case PT64BF:
		return 8
	}
	return 0
}
