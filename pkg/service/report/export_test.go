package report

import "github.com/secmon-lab/owasprisk/pkg/domain/model"

// BuildUncompressed renders like Build but leaves page streams readable
func BuildUncompressed(eval *model.Evaluation) ([]byte, error) {
	return build(eval, false)
}
