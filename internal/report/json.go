package report

import (
	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/utils"
)

// JSON renders the full result as indented JSON.
func JSON(res *engine.Result) ([]byte, error) {
	return utils.PrettyJSON(res)
}
