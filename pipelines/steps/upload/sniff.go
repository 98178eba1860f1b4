package upload

import (
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/util"
	"github.com/sirupsen/logrus"
)

// SniffContentType logs when the bytes don't look like what the client said they were.
// The declared type is always what gets stored.
func SniffContentType(ctx rcontext.RequestContext, data []byte, declared string) string {
	detected := util.DetectMimeType(data)
	if !util.SameMediaType(declared, detected) {
		ctx.Log.WithFields(logrus.Fields{
			"declaredType": declared,
			"detectedType": detected,
		}).Warn("Declared content type does not match the uploaded bytes")
	}
	return detected
}
