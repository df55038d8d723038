package delta

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codalotl/richsync/internal/attributes"
)

// opJSON is the wire shape of an op: exactly one of insert, retain, delete is set.
type opJSON struct {
	Insert     *string         `json:"insert,omitempty"`
	Retain     *int            `json:"retain,omitempty"`
	Delete     *int            `json:"delete,omitempty"`
	Attributes *attributes.Map `json:"attributes,omitempty"`
}

// MarshalJSON encodes o as {"insert":"..."}, {"retain":n} or {"delete":n}, with "attributes" when non-empty.
func (o Op) MarshalJSON() ([]byte, error) {
	var w opJSON
	switch o.Kind {
	case KindInsert:
		w.Insert = &o.Text
	case KindRetain:
		w.Retain = &o.Count
	case KindDelete:
		w.Delete = &o.Count
	default:
		return nil, fmt.Errorf("delta: cannot encode op kind %q", o.Kind)
	}
	if o.Kind != KindDelete && !o.Attributes.IsEmpty() {
		w.Attributes = &o.Attributes
	}
	return json.Marshal(w)
}

func (o *Op) UnmarshalJSON(b []byte) error {
	var w opJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	set := 0
	var op Op
	if w.Insert != nil {
		set++
		op = Insert(*w.Insert, attributes.Map{})
	}
	if w.Retain != nil {
		set++
		if *w.Retain <= 0 {
			return fmt.Errorf("delta: retain must be positive, got %d", *w.Retain)
		}
		op = Retain(*w.Retain, attributes.Map{})
	}
	if w.Delete != nil {
		set++
		if *w.Delete <= 0 {
			return fmt.Errorf("delta: delete must be positive, got %d", *w.Delete)
		}
		op = Delete(*w.Delete)
	}
	if set != 1 {
		return errors.New("delta: op must have exactly one of insert, retain, delete")
	}
	if w.Attributes != nil {
		if op.Kind == KindDelete {
			return errors.New("delta: delete op cannot carry attributes")
		}
		op.Attributes = *w.Attributes
	}
	*o = op
	return nil
}

type deltaJSON struct {
	Ops []Op `json:"ops"`
}

// MarshalJSON encodes d as {"ops":[...]}.
func (d Delta) MarshalJSON() ([]byte, error) {
	ops := []Op(d)
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(deltaJSON{Ops: ops})
}

// UnmarshalJSON decodes {"ops":[...]}.
func (d *Delta) UnmarshalJSON(b []byte) error {
	var w deltaJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = Delta(w.Ops)
	return nil
}
