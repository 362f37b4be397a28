// Package segment partitions a data-page image into row blocks so each OCR
// call sees a handful of voter entries instead of a dense full page. Splits
// follow the horizontal projection profile of the page: text rows are bands
// of dark pixels separated by whitespace gaps.
package segment

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const (
	// inkThreshold is the luminance below which a pixel counts as ink.
	inkThreshold = 0x60

	// minInkFraction is the share of dark pixels a scanline needs to be
	// part of a text band.
	minInkFraction = 0.005

	// minGap is the number of consecutive blank scanlines that separate
	// two text bands. Thinner gaps are treated as intra-row spacing.
	minGap = 4

	// minBandHeight filters out speckle and rule lines.
	minBandHeight = 6
)

// Segment is one cropped block of a data page.
type Segment struct {
	Index int    // 0-based position on the page, top to bottom
	Rows  int    // text bands covered by this block
	PNG   []byte // encoded crop
}

// Split partitions a PNG-encoded page into blocks of up to rowsPerBlock text
// bands. Blocks tile the page top to bottom with no gaps between them. When
// the page resists a clean split (undecodable, too small, no detectable
// bands) the whole page comes back as a single segment.
func Split(pageImage []byte, rowsPerBlock int) ([]Segment, error) {
	if rowsPerBlock <= 0 {
		rowsPerBlock = 10
	}

	img, _, err := image.Decode(bytes.NewReader(pageImage))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}

	bands := textBands(img)
	if len(bands) < 2 {
		return []Segment{{Index: 0, Rows: len(bands), PNG: pageImage}}, nil
	}

	cuts := blockCuts(img.Bounds(), bands, rowsPerBlock)

	segments := make([]Segment, 0, len(cuts))
	for i, cut := range cuts {
		crop, err := encodeCrop(img, cut.top, cut.bottom)
		if err != nil {
			// A failed crop invalidates the split; fall back to the
			// whole page rather than return a partial tiling.
			return []Segment{{Index: 0, Rows: len(bands), PNG: pageImage}}, nil
		}
		segments = append(segments, Segment{Index: i, Rows: cut.rows, PNG: crop})
	}
	return segments, nil
}

// band is a contiguous run of inked scanlines.
type band struct{ top, bottom int }

// textBands scans the image's horizontal projection profile for text rows.
func textBands(img image.Image) []band {
	bounds := img.Bounds()
	var (
		bands   []band
		inBand  bool
		top     int
		gapRun  int
		lastInk int
	)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if lineHasInk(img, y) {
			if !inBand {
				inBand = true
				top = y
			}
			gapRun = 0
			lastInk = y
			continue
		}
		if inBand {
			gapRun++
			if gapRun >= minGap {
				if lastInk-top+1 >= minBandHeight {
					bands = append(bands, band{top: top, bottom: lastInk})
				}
				inBand = false
			}
		}
	}
	if inBand && lastInk-top+1 >= minBandHeight {
		bands = append(bands, band{top: top, bottom: lastInk})
	}
	return bands
}

func lineHasInk(img image.Image, y int) bool {
	bounds := img.Bounds()
	width := bounds.Dx()
	if width == 0 {
		return false
	}
	dark := 0
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		if luminance(img.At(x, y)) < inkThreshold {
			dark++
		}
	}
	return float64(dark)/float64(width) >= minInkFraction
}

func luminance(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// cut is the vertical extent of one output block.
type cut struct {
	top, bottom int
	rows        int
}

// blockCuts groups bands into blocks of rowsPerBlock and extends each block
// to the midpoint of the surrounding gaps, so the blocks tile the full page
// and no text band is ever divided between two blocks.
func blockCuts(bounds image.Rectangle, bands []band, rowsPerBlock int) []cut {
	var cuts []cut
	for i := 0; i < len(bands); i += rowsPerBlock {
		j := i + rowsPerBlock
		if j > len(bands) {
			j = len(bands)
		}
		cuts = append(cuts, cut{top: bands[i].top, bottom: bands[j-1].bottom, rows: j - i})
	}

	// Extend cut edges to gap midpoints, and the first/last cuts to the
	// page edges, so the tiling has no uncovered strips.
	for i := range cuts {
		if i == 0 {
			cuts[i].top = bounds.Min.Y
		} else {
			mid := (cuts[i-1].bottom + cuts[i].top) / 2
			cuts[i-1].bottom = mid
			cuts[i].top = mid + 1
		}
	}
	cuts[len(cuts)-1].bottom = bounds.Max.Y - 1
	return cuts
}

func encodeCrop(img image.Image, top, bottom int) ([]byte, error) {
	bounds := img.Bounds()
	rect := image.Rect(bounds.Min.X, top, bounds.Max.X, bottom+1)

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}

	var crop image.Image
	if si, ok := img.(subImager); ok {
		crop = si.SubImage(rect)
	} else {
		rgba := image.NewRGBA(rect)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
		crop = rgba
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("failed to encode segment: %w", err)
	}
	return buf.Bytes(), nil
}
