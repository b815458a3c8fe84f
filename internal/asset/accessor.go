package asset

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type component interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~uint32 | ~float32
}

// dequantize maps a normalized integer component to [0,1] or [-1,1].
func dequantize[T component](c T, normalized bool) float32 {
	if !normalized {
		return float32(c)
	}
	switch v := any(c).(type) {
	case int8:
		return max(float32(v)/127, -1)
	case uint8:
		return float32(v) / 255
	case int16:
		return max(float32(v)/32767, -1)
	case uint16:
		return float32(v) / 65535
	}
	return float32(c)
}

func appendRow[T component](out []float32, row []T, normalized bool) []float32 {
	for _, c := range row {
		out = append(out, dequantize(c, normalized))
	}
	return out
}

// flatten turns decoded accessor data into a flat float slice, element after
// element. Matrices come out column-major, as glTF stores them.
func flatten(data any, normalized bool) ([]float32, error) {
	var out []float32
	switch v := data.(type) {
	case []float32:
		out = append(out, v...)
	case [][2]float32:
		for i := range v {
			out = appendRow(out, v[i][:], false)
		}
	case [][3]float32:
		for i := range v {
			out = appendRow(out, v[i][:], false)
		}
	case [][4]float32:
		for i := range v {
			out = appendRow(out, v[i][:], false)
		}
	case [][4][4]float32:
		// Decoded matrices are indexed [row][col].
		for i := range v {
			for col := 0; col < 4; col++ {
				for row := 0; row < 4; row++ {
					out = append(out, v[i][row][col])
				}
			}
		}
	case []int8:
		out = appendRow(out, v, normalized)
	case []uint8:
		out = appendRow(out, v, normalized)
	case []int16:
		out = appendRow(out, v, normalized)
	case []uint16:
		out = appendRow(out, v, normalized)
	case []uint32:
		out = appendRow(out, v, false)
	case [][4]int8:
		for i := range v {
			out = appendRow(out, v[i][:], normalized)
		}
	case [][4]uint8:
		for i := range v {
			out = appendRow(out, v[i][:], normalized)
		}
	case [][4]int16:
		for i := range v {
			out = appendRow(out, v[i][:], normalized)
		}
	case [][4]uint16:
		for i := range v {
			out = appendRow(out, v[i][:], normalized)
		}
	default:
		return nil, errors.Errorf("unsupported accessor layout %T", data)
	}
	return out, nil
}

// readFloats decodes accessor idx into a flat float slice.
func readFloats(doc *gltf.Document, idx int) ([]float32, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "accessor %d", idx)
	}
	return flatten(data, acc.Normalized)
}
