// Package pdfcarrier implements the "attach" strategy for PDF containers
// named in the specification's out-of-scope adapter list: rather than
// rendering and re-assembling PDF pages (which this module does not
// attempt), a neutral raster carrier is watermarked by the core and
// attached to a minimal PDF as an embedded file stream. Detecting and
// re-rendering existing PDF pages is explicitly not implemented; every PDF
// this package produces is a fresh, single-page document.
package pdfcarrier

import (
	"bytes"
	"fmt"

	"github.com/rastermark/rastermark/internal/luma"
)

// CarrierSize is the edge length of the synthesized neutral-gray carrier
// raster used when no caller-supplied image is available to watermark.
const CarrierSize = 512

// carrierGray is a mid-tone chosen to leave headroom on both sides of the
// embedding strength's magnitude floor.
const carrierGray = 128

// NewCarrier returns a CarrierSize x CarrierSize opaque, flat gray
// luma.Pixels buffer suitable for watermarking and attachment.
func NewCarrier() *luma.Pixels {
	data := make([]byte, CarrierSize*CarrierSize*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = carrierGray
		data[i+1] = carrierGray
		data[i+2] = carrierGray
		data[i+3] = 255
	}
	return &luma.Pixels{Width: CarrierSize, Height: CarrierSize, Data: data}
}

// Attach builds a minimal single-page PDF with carrierPNG embedded as a
// named attached file (filename), and returns the serialized document
// bytes. The page content is a single short text label; the watermark
// lives entirely in the embedded file stream, not in page content.
func Attach(carrierPNG []byte, filename string) ([]byte, error) {
	if len(carrierPNG) == 0 {
		return nil, fmt.Errorf("pdfcarrier: empty carrier payload")
	}

	var buf bytes.Buffer
	offsets := make([]int, 0, 8)

	writeObj := func(n int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	// 1: catalog, 2: pages, 3: page, 4: content stream, 5: embedded file
	// stream, 6: filespec, 7: names tree (attached to catalog).
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R /Names 7 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Contents 4 0 R /Resources << >> >>")

	content := "BT /F1 12 Tf 20 180 Td (watermark carrier attached) Tj ET"
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	offsets = append(offsets, buf.Len())
	fmt.Fprintf(&buf, "5 0 obj\n<< /Type /EmbeddedFile /Subtype /image#2Fpng /Length %d >>\nstream\n", len(carrierPNG))
	buf.Write(carrierPNG)
	buf.WriteString("\nendstream\nendobj\n")

	writeObj(6, fmt.Sprintf(
		"<< /Type /Filespec /F (%s) /EF << /F 5 0 R >> >>",
		escapeLiteral(filename),
	))
	writeObj(7, fmt.Sprintf(
		"<< /EmbeddedFiles << /Names [(%s) 6 0 R] >> >>",
		escapeLiteral(filename),
	))

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF",
		len(offsets)+1, xrefStart)

	return buf.Bytes(), nil
}

func escapeLiteral(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', ')', '\\':
			out = append(out, '\\', s[i])
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
