package loader

// PDFOptions configure PDF extraction.
type PDFOptions struct {
	// RasterDPI is the render resolution for full page recognition.
	RasterDPI int
}

// PDFOption is a function that configures PDFOptions
type PDFOption func(*PDFOptions)

func defaultPDFOptions() *PDFOptions {
	return &PDFOptions{RasterDPI: 200}
}

// WithRasterDPI sets the render resolution used when a scanned page
// is rasterized for recognition.
func WithRasterDPI(dpi int) PDFOption {
	return func(o *PDFOptions) {
		if dpi > 0 {
			o.RasterDPI = dpi
		}
	}
}
