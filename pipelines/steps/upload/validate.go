package upload

import (
	"strings"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/util"
)

// CheckCategory parses the category and returns the upload limits that apply to it.
func CheckCategory(ctx rcontext.RequestContext, category string) (common.Category, config.CategoryUploadsConfig, error) {
	c, ok := common.ParseCategory(category)
	if !ok {
		return "", config.CategoryUploadsConfig{}, common.ErrInvalidCategory
	}
	limits, ok := ctx.Config.Uploads.ForCategory(string(c))
	if !ok {
		return "", config.CategoryUploadsConfig{}, common.ErrInvalidCategory
	}
	return c, limits, nil
}

// CheckContentType matches the lower-cased declared type against the allow-list.
func CheckContentType(limits config.CategoryUploadsConfig, contentType string) error {
	if !util.GlobAnyMatch(strings.ToLower(strings.TrimSpace(contentType)), limits.AllowedTypes) {
		return common.ErrUnsupportedMediaType
	}
	return nil
}

func CheckSize(limits config.CategoryUploadsConfig, size int64) error {
	if limits.MaxSizeBytes > 0 && size > limits.MaxSizeBytes {
		return common.ErrMediaTooLarge
	}
	return nil
}
