package layout

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/roomeditor/pkg/errors"
)

// Encode writes l as indented JSON, the format used by layout export and
// the file store.
func Encode(w io.Writer, l *Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode layout")
	}
	return nil
}

// Decode reads a layout written by Encode. The layout must carry a name and
// every item an id; ItemCount is recomputed from the items.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	if err := errors.ValidateLayoutName(l.Metadata.Name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	for i, it := range l.Data.Items {
		if it.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "decode layout: item %d has no id", i)
		}
	}
	l.Metadata.ItemCount = len(l.Data.Items)
	return &l, nil
}
