package output

import (
	"encoding/json"
)

// JSONFormatter emits full-precision JSON. A report with a single section
// is encoded as that section alone.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	var v any = r
	if only := r.only(); only != nil {
		v = only
	}
	if j.Pretty {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return json.Marshal(v)
}
