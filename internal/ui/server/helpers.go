package server

import (
	"io/fs"
	"os"
	"strings"

	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
	"github.com/Its-donkey/pricing-protocol/logging"
	"github.com/Its-donkey/pricing-protocol/ui"
)

const defaultListen = "127.0.0.1:4173"

func applyDefaults(opts Options) Options {
	if strings.TrimSpace(opts.Listen) == "" {
		opts.Listen = defaultListen
	}
	if strings.TrimSpace(opts.SiteName) == "" {
		opts.SiteName = nav.Brand
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(logging.INFO)
	}
	return opts
}

// templateFS prefers an on-disk template directory over the embedded copy.
func templateFS(dir string) fs.FS {
	if dir = strings.TrimSpace(dir); dir != "" {
		return os.DirFS(dir)
	}
	return ui.Templates()
}

// staticFS prefers an on-disk assets directory over the embedded copy.
func staticFS(dir string) fs.FS {
	if dir = strings.TrimSpace(dir); dir != "" {
		return os.DirFS(dir)
	}
	return ui.Static()
}
