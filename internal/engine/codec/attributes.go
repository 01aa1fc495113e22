package codec

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// String returns a compact description such as "utf-8+bom/crlf".
func (a Attributes) String() string {
	s := a.Encoding.String()
	if a.BOM {
		s += "+bom"
	}
	return s + "/" + a.EOL.String()
}

// MarshalJSON encodes the attributes as
// {"encoding":"utf-8","bom":false,"eol":"lf"}.
func (a Attributes) MarshalJSON() ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "encoding", a.Encoding.String()); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "bom", a.BOM); err != nil {
		return nil, err
	}
	return sjson.SetBytes(doc, "eol", a.EOL.String())
}

// UnmarshalJSON decodes the form written by MarshalJSON. Missing fields
// keep their defaults.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("codec: invalid attributes document")
	}
	out := DefaultAttributes()
	res := gjson.GetManyBytes(data, "encoding", "bom", "eol")
	if res[0].Exists() {
		enc, err := ParseEncoding(res[0].String())
		if err != nil {
			return err
		}
		out.Encoding = enc
	}
	if res[1].Exists() {
		out.BOM = res[1].Bool()
	}
	if res[2].Exists() {
		eol, err := ParseLineEnding(res[2].String())
		if err != nil {
			return err
		}
		out.EOL = eol
	}
	*a = out
	return nil
}
