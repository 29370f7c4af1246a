package app

import (
	"log/slog"
	"mime"
)

// staticTypes covers the asset extensions served under /static. Slim images
// ship without /etc/mime.types, leaving the file server to sniff content.
var staticTypes = map[string]string{
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".woff2": "font/woff2",
	".ico":   "image/x-icon",
}

func init() {
	registerStaticTypes(slog.Default())
}

// registerStaticTypes fills in missing extensions and reports how many it added.
func registerStaticTypes(logger *slog.Logger) int {
	added := 0
	for ext, typ := range staticTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			logger.Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
			continue
		}
		added++
	}
	return added
}
