package form

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/talkincode/productform/internal/domain"
)

// json matches encoding/json except that HTML characters are written as
// typed, so the panel shows exactly what was entered.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Serialize renders r as two-space indented JSON with keys in struct order.
func Serialize(r domain.ProductRecord) (string, error) {
	bs, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal product record")
	}
	return string(bs), nil
}
