package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// JSON 解析 JSON 文档，保留对象键的原始顺序。
//
// 不含小数点与指数的数字解析为 integer，其余为 float。
func JSON(r io.Reader) (layer.Element, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return layer.Element{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return layer.Element{}, errors.New("json: unexpected data after top-level value")
	}

	return v, nil
}

// JSONC 解析带注释与尾逗号的 JSON
func JSONC(r io.Reader) (layer.Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return layer.Element{}, err
	}

	return JSON(bytes.NewReader(jsonc.ToJSON(data)))
}

func decodeJSONValue(dec *json.Decoder) (layer.Element, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return layer.Element{}, io.ErrUnexpectedEOF
		}
		return layer.Element{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := layer.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return layer.Element{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return layer.Element{}, fmt.Errorf("json: unexpected object key %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return layer.Element{}, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return layer.Element{}, err
			}

			return layer.FromMap(m), nil
		case '[':
			var items []layer.Element
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return layer.Element{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return layer.Element{}, err
			}

			return layer.List(items...), nil
		}

		return layer.Element{}, fmt.Errorf("json: unexpected delimiter %q", t)
	case json.Number:
		return numberElement(t)
	case string:
		return layer.String(t), nil
	case bool:
		return layer.Bool(t), nil
	case nil:
		return layer.Null(), nil
	}

	return layer.Element{}, fmt.Errorf("json: unexpected token %v", tok)
}

func numberElement(n json.Number) (layer.Element, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return layer.Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return layer.Element{}, err
	}

	return layer.Float(f), nil
}
