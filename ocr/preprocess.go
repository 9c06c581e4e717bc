package ocr

import (
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// Preprocess prepares an image for recognition: grayscale, Otsu
// binarization, then a 3x3 median blur. Binarizing before denoising
// improves recognition on noisy scans.
func Preprocess(img image.Image) *image.Gray {
	gray := toGray(imaging.Grayscale(img))
	binarize(gray, otsuThreshold(gray))
	return medianBlur3(gray)
}

func toGray(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			// Channels are equal after imaging.Grayscale; take red.
			px := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			gray.Pix[y*gray.Stride+x] = px.R
		}
	}
	return gray
}

// otsuThreshold picks the threshold that maximizes between-class
// variance over the intensity histogram.
func otsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	total := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return 128
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var (
		sumBack    float64
		weightBack int
		maxVar     float64
		threshold  uint8
	)
	for i := 0; i < 256; i++ {
		weightBack += hist[i]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(i) * float64(hist[i])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		betweenVar := float64(weightBack) * float64(weightFore) * diff * diff
		if betweenVar > maxVar {
			maxVar = betweenVar
			threshold = uint8(i)
		}
	}
	return threshold
}

func binarize(img *image.Gray, threshold uint8) {
	for i, v := range img.Pix {
		if v > threshold {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 0
		}
	}
}

// medianBlur3 applies a 3x3 median filter. Border pixels use the
// median of the in-bounds part of their neighborhood.
func medianBlur3(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	window := make([]uint8, 0, 9)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					window = append(window, img.Pix[ny*img.Stride+nx])
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.Pix[y*out.Stride+x] = window[len(window)/2]
		}
	}
	return out
}
