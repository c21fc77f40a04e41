package raysub

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the fixed byte size of a binary ray-file header.
const HeaderSize = 208

// ReadHeader decodes and validates a binary ray-file header.
func ReadHeader(r io.Reader) (*Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedHeader
		}
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// WriteHeader serializes h in the exact on-disk layout.
func WriteHeader(w io.Writer, h *Header) error {
	return binary.Write(w, binary.LittleEndian, h)
}

// Validate checks the identifier and the format/flux type combination.
func (h *Header) Validate() error {
	if h.Identifier != identLegacy && h.Identifier != identCurrent {
		return fmt.Errorf("%w: %d", ErrUnknownIdentifier, h.Identifier)
	}
	switch h.RayFormatType {
	case RayFormatGeneric:
		if h.FluxType != FluxMonochrome && h.FluxType != FluxSpectral {
			return fmt.Errorf("%w: %d", ErrUnknownFluxType, h.FluxType)
		}
	case RayFormatSpectral:
		if h.FluxType != FluxMonochrome {
			return fmt.Errorf("%w: %d", ErrUnknownFluxType, h.FluxType)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormatType, h.RayFormatType)
	}
	return nil
}

// RayFloats returns the number of float32 values per binary ray record.
func (h *Header) RayFloats() int {
	if h.RayFormatType == RayFormatSpectral {
		return rayFloatsSpectral
	}
	return rayFloatsGeneric
}

// SetDescription stores s NUL-padded into the fixed description field.
func (h *Header) SetDescription(s string) {
	h.Description = [descriptionLen]byte{}
	copy(h.Description[:], s)
}
