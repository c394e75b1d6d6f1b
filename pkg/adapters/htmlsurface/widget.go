package htmlsurface

import (
	"fmt"
	"html"
)

// DefaultHTML returns a self-contained page with a CSS-animated spinner widget.
func DefaultHTML(width, height int, caption string) string {
	size := width
	if height < size {
		size = height
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; width: %[1]dpx; height: %[2]dpx; overflow: hidden; background: #1a1a2e; }
  #widget { position: absolute; inset: 4%%; border-radius: 12px; background: #333355;
            display: flex; flex-direction: column; align-items: center; justify-content: center;
            animation: pulse 2s ease-in-out infinite; }
  .spinner { width: %[3]dpx; height: %[3]dpx; border-radius: 50%%;
             border: %[4]dpx solid transparent; border-top-color: #4ade80;
             animation: spin 2s linear infinite; }
  .caption { margin-top: 12px; color: #fff; font: 600 %[5]dpx sans-serif; }
  @keyframes spin { to { transform: rotate(360deg); } }
  @keyframes pulse { 50%% { transform: scale(1.04); } }
</style>
</head>
<body><div id="widget"><div class="spinner"></div><div class="caption">%[6]s</div></div></body>
</html>`, width, height, size*2/5, size/25+2, size/14+4, html.EscapeString(caption))
}
