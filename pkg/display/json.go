package display

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/sync"
)

// JSONRenderer renders machine-readable JSON for scripting.
type JSONRenderer struct {
	encoder *json.Encoder
}

func NewJSONRenderer(output io.Writer) *JSONRenderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &JSONRenderer{encoder: encoder}
}

func (r *JSONRenderer) RenderResult(result *sync.Result) error {
	return r.encoder.Encode(result)
}

func (r *JSONRenderer) RenderRules(dir string, files []rules.FileInfo) error {
	// Empty trees encode as an empty list, not null.
	if files == nil {
		files = []rules.FileInfo{}
	}
	return r.encoder.Encode(map[string]interface{}{
		"rules_dir": dir,
		"rules":     files,
	})
}

func (r *JSONRenderer) RenderError(err error) error {
	obj := map[string]interface{}{
		"error": err.Error(),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	return r.encoder.Encode(obj)
}

func (r *JSONRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
