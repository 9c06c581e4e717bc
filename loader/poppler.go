package loader

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// pageImage is a rendered or extracted image tied to a PDF page.
type pageImage struct {
	Page int
	Path string
}

// extractEmbeddedImages pulls the raster images embedded in a PDF into
// dir using pdfimages. The -p flag encodes the page number into each
// file name.
func extractEmbeddedImages(ctx context.Context, pdfPath, dir string) ([]pageImage, error) {
	prefix := filepath.Join(dir, "img")
	if err := runPoppler(ctx, "pdfimages", "-png", "-p", pdfPath, prefix); err != nil {
		return nil, err
	}
	return collectPageImages(prefix)
}

// rasterizePages renders every page of a PDF to a PNG in dir at the
// given DPI using pdftoppm.
func rasterizePages(ctx context.Context, pdfPath, dir string, dpi int) ([]pageImage, error) {
	prefix := filepath.Join(dir, "page")
	args := []string{"-png", "-r", strconv.Itoa(dpi), pdfPath, prefix}
	if err := runPoppler(ctx, "pdftoppm", args...); err != nil {
		return nil, err
	}
	return collectPageImages(prefix)
}

func runPoppler(ctx context.Context, bin string, args ...string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return errors.Wrapf(err, "%s not found in PATH", bin)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed: %s", bin, stderr.String())
	}
	return nil
}

// collectPageImages globs prefix-*.png and parses the page number from
// the first hyphen-separated field after the prefix. pdfimages names
// files img-PPP-NNN.png, pdftoppm names them page-N.png, so the page
// number leads in both.
func collectPageImages(prefix string) ([]pageImage, error) {
	paths, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}

	images := make([]pageImage, 0, len(paths))
	base := filepath.Base(prefix)
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".png")
		fields := strings.Split(strings.TrimPrefix(name, base+"-"), "-")
		page := 0
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				page = n
			}
		}
		images = append(images, pageImage{Page: page, Path: p})
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].Page != images[j].Page {
			return images[i].Page < images[j].Page
		}
		return images[i].Path < images[j].Path
	})
	return images, nil
}
