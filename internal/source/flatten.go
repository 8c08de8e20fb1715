package source

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"dailyoperacional/internal/dataset"
	"dailyoperacional/internal/normalize"
)

// decodeDocument parses one Drive JSON document and returns every event row
// found under any "tables" or "rows" key, at any depth.
func decodeDocument(b []byte) ([]dataset.Event, error) {
	dec := json.NewDecoder(bytes.NewReader(normalize.DecodeText(b)))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("source: decode document: %w", err)
	}
	var out []dataset.Event
	walk(doc, &out)
	return out, nil
}

func walk(node interface{}, out *[]dataset.Event) {
	switch n := node.(type) {
	case map[string]interface{}:
		if rows, ok := n["rows"].([]interface{}); ok {
			flattenRows(rows, columnsOf(n), out)
		}
		for k, v := range n {
			if k == "rows" {
				continue
			}
			walk(v, out)
		}
	case []interface{}:
		for _, v := range n {
			walk(v, out)
		}
	}
}

func columnsOf(table map[string]interface{}) []string {
	for _, key := range []string{"columns", "headers"} {
		raw, ok := table[key].([]interface{})
		if !ok {
			continue
		}
		cols := make([]string, len(raw))
		for i, c := range raw {
			cols[i] = normalize.Header(scalar(c))
		}
		return cols
	}
	return nil
}

func flattenRows(rows []interface{}, columns []string, out *[]dataset.Event) {
	for _, raw := range rows {
		cells := map[string]string{}
		switch row := raw.(type) {
		case map[string]interface{}:
			for k, v := range row {
				cells[normalize.Header(k)] = scalar(v)
			}
		case []interface{}:
			for i, v := range row {
				if i < len(columns) {
					cells[columns[i]] = scalar(v)
				}
			}
		default:
			continue
		}
		if cells["Penalidades"] == "" && cells["Chave2"] == "" {
			continue
		}
		*out = append(*out, newEvent(cells["Chave2"], cells["Penalidades"], cells["Data"], cells["Contagem"]))
	}
}

func scalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
