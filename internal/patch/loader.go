package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/fsutil"
)

// Extension is the file suffix patch files carry.
const Extension = ".hcl"

// Load reads a single patch file or every patch file under a directory and
// merges the blocks into one Patch. The patch is named after the file stem
// or the directory base.
func Load(ctx context.Context, path string) (*Patch, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access patch path %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patch directory %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files found under %s", Extension, path)
		}
	} else {
		files = []string{path}
	}
	logger.Debug("Loading patch files.", "count", len(files), "path", path)

	p := &Patch{Name: patchName(path, info.IsDir())}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse patch file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode patch file %s: %w", file, diags)
		}

		p.Modules = append(p.Modules, root.Modules...)
		p.Connects = append(p.Connects, root.Connects...)
		p.Channels = append(p.Channels, root.Channels...)
	}

	logger.Debug("Patch loaded.",
		"patch", p.Name,
		"modules", len(p.Modules),
		"connections", len(p.Connects),
		"channels", len(p.Channels))
	return p, nil
}

func patchName(path string, isDir bool) string {
	base := filepath.Base(path)
	if !isDir {
		base = strings.TrimSuffix(base, Extension)
	}
	return base
}
