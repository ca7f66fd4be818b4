package config

import (
	"fmt"
	"strings"
)

// Specification of requested swatch output type.
type SwatchFormat int

const (
	SwatchFormatSvg SwatchFormat = iota
	SwatchFormatPng
)

func (f SwatchFormat) String() string {
	switch f {
	case SwatchFormatSvg:
		return "svg"
	case SwatchFormatPng:
		return "png"
	default:
		// this should never happen
		panic("unsupported swatch format requested")
	}
}

func (f SwatchFormat) Ext() string {
	return "." + f.String()
}

func ParseSwatchFormat(name string) (SwatchFormat, error) {
	switch strings.ToLower(name) {
	case "svg":
		return SwatchFormatSvg, nil
	case "png":
		return SwatchFormatPng, nil
	default:
		return SwatchFormatSvg, fmt.Errorf("%q is not a valid swatch format", name)
	}
}
