package media

import (
	"github.com/mstolarczyk/Goshawk/internal/model"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "webp": true,
	"gif": true, "bmp": true, "tif": true, "tiff": true,
}

// KindForFilename classifies a referenced file by extension. Anything that is
// not a known image extension is treated as video, unknown extensions
// included.
func KindForFilename(filename string) model.MediaKind {
	if imageExtensions[extensionOf(filename)] {
		return model.MediaKindImage
	}
	return model.MediaKindVideo
}
